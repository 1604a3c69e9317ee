// Package locale renders domain messages from embedded YAML string tables.
package locale

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/randomtoy/oura/internal/domain"
)

//go:embed data/*.yaml
var tableFS embed.FS

// registry lists the supported locales. The first one is the default and
// the fallback for keys missing from other tables.
var registry = []struct {
	tag  language.Tag
	file string
}{
	{language.SimplifiedChinese, "data/zh-Hans.yaml"},
	{language.English, "data/en.yaml"},
}

// Catalog loads the embedded string tables on first use.
type Catalog struct {
	once    sync.Once
	tables  []map[string]string
	matcher language.Matcher
	err     error
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

func (c *Catalog) init() {
	tags := make([]language.Tag, len(registry))
	c.tables = make([]map[string]string, len(registry))
	for i, entry := range registry {
		tags[i] = entry.tag
		raw, err := tableFS.ReadFile(entry.file)
		if err != nil {
			c.err = fmt.Errorf("read string table %s: %w", entry.tag, err)
			return
		}
		var table map[string]string
		if err := yaml.Unmarshal(raw, &table); err != nil {
			c.err = fmt.Errorf("parse string table %s: %w", entry.tag, err)
			return
		}
		c.tables[i] = table
	}
	c.matcher = language.NewMatcher(tags)
}

// Locales lists the supported locale tags, default first.
func (c *Catalog) Locales() []string {
	out := make([]string, len(registry))
	for i, entry := range registry {
		out[i] = entry.tag.String()
	}
	return out
}

// Localizer returns the best match for the preferred languages. Each
// preference may be a tag or an Accept-Language value. Unparsable entries
// are skipped and no match selects the default locale.
func (c *Catalog) Localizer(prefs ...string) (*Localizer, error) {
	c.once.Do(c.init)
	if c.err != nil {
		return nil, c.err
	}

	var wanted []language.Tag
	for _, p := range prefs {
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		wanted = append(wanted, tags...)
	}

	idx := 0
	if len(wanted) > 0 {
		_, i, conf := c.matcher.Match(wanted...)
		if conf != language.No {
			idx = i
		}
	}
	return &Localizer{
		tag:      registry[idx].tag,
		table:    c.tables[idx],
		fallback: c.tables[0],
	}, nil
}

// Keys returns every key of the default table in sorted order.
func (c *Catalog) Keys() ([]string, error) {
	c.once.Do(c.init)
	if c.err != nil {
		return nil, c.err
	}
	keys := make([]string, 0, len(c.tables[0]))
	for k := range c.tables[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Localizer renders messages in one locale.
type Localizer struct {
	tag      language.Tag
	table    map[string]string
	fallback map[string]string
}

func (l *Localizer) Locale() string { return l.tag.String() }

// Text renders m. Literal messages render verbatim; a key missing from every
// table renders as the key itself. Parameters fill "{name}" placeholders and
// are rendered recursively.
func (l *Localizer) Text(m domain.Message) string {
	if m.Key == "" {
		return m.Text
	}
	tmpl, ok := l.table[m.Key]
	if !ok {
		tmpl, ok = l.fallback[m.Key]
	}
	if !ok {
		tmpl = m.Key
	}
	if len(m.Params) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, 2*len(m.Params))
	for name, p := range m.Params {
		pairs = append(pairs, "{"+name+"}", l.Text(p))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Has reports whether key is defined for this locale or the default one.
func (l *Localizer) Has(key string) bool {
	if _, ok := l.table[key]; ok {
		return true
	}
	_, ok := l.fallback[key]
	return ok
}
