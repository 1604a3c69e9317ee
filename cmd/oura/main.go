// Command oura runs the guided tarot ritual as an HTTP service, a terminal
// UI, or a one-shot draw.
package main

func main() {
	Execute()
}
