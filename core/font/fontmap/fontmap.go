package fontmap

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/derekparker/trie"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/texbin/core"
	"github.com/npillmayer/texbin/core/locate"
)

// MapKey is the configuration key listing the map files to load.
const MapKey = "texbin.fontmap"

// Resolver resolves a TeX font name to a font map entry.
type Resolver interface {
	ResolveFontMapEntry(texName string) (*Entry, error)
}

// Map is a collection of font map entries. It is safe for concurrent use.
type Map struct {
	mx      sync.RWMutex
	entries *trie.Trie
	count   int
}

var _ Resolver = (*Map)(nil)

// New creates an empty font map.
func New() *Map {
	return &Map{entries: trie.New()}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	m.mx.RLock()
	defer m.mx.RUnlock()
	return m.count
}

// Add inserts an entry. An existing entry for the same TeX name is kept,
// as dvips does.
func (m *Map) Add(e *Entry) bool {
	if e == nil || e.TeXName == "" {
		return false
	}
	m.mx.Lock()
	defer m.mx.Unlock()
	if _, found := m.entries.Find(e.TeXName); found {
		tracer().Debugf("font map already has an entry for %s", e.TeXName)
		return false
	}
	m.entries.Add(e.TeXName, e)
	m.count++
	return true
}

// Lookup returns the entry for a TeX font name.
func (m *Map) Lookup(texName string) (*Entry, bool) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	node, found := m.entries.Find(texName)
	if !found {
		return nil, false
	}
	return node.Meta().(*Entry), true
}

// ResolveFontMapEntry is Lookup with an error for missing names.
func (m *Map) ResolveFontMapEntry(texName string) (*Entry, error) {
	if e, ok := m.Lookup(texName); ok {
		return e, nil
	}
	return nil, core.Error(core.EMISSING, "no font map entry for %s", texName)
}

// WithPrefix returns all entries whose TeX name starts with prefix, sorted
// by name.
func (m *Map) WithPrefix(prefix string) []*Entry {
	m.mx.RLock()
	defer m.mx.RUnlock()
	keys := m.entries.PrefixSearch(prefix)
	sort.Strings(keys)
	r := make([]*Entry, 0, len(keys))
	for _, k := range keys {
		if node, ok := m.entries.Find(k); ok {
			r = append(r, node.Meta().(*Entry))
		}
	}
	return r
}

// LoadFile parses a map file and adds its entries.
func (m *Map) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return core.WrapError(err, core.EMISSING, "cannot open font map %s", path)
	}
	defer f.Close()
	return m.Parse(f, filepath.Base(path))
}

// Load reads the map files named by configuration key 'texbin.fontmap', a
// list separated by os.PathListSeparator. Names which are not paths to
// existing files are looked up with loc. If conf is nil, the global
// configuration is used.
func Load(conf schuko.Configuration, loc locate.Locator) (*Map, error) {
	var names string
	if conf != nil {
		names = conf.GetString(MapKey)
	} else {
		names = gconf.GetString(MapKey)
	}
	m := New()
	for _, name := range filepath.SplitList(names) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		path := name
		if _, err := os.Stat(path); err != nil {
			base := strings.TrimSuffix(name, ".map")
			var ok bool
			if loc == nil {
				return nil, locate.NotFound(base, locate.Map)
			}
			if path, ok = loc.LocateFile(base, locate.Map); !ok {
				return nil, locate.NotFound(base, locate.Map)
			}
		}
		if err := m.LoadFile(path); err != nil {
			return nil, err
		}
	}
	tracer().Infof("font map holds %d entries", m.Len())
	return m, nil
}

// Parse reads map lines from r. Lines which cannot be understood are
// reported and skipped; an unterminated quote is an error.
func (m *Map) Parse(r io.Reader, source string) error {
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.ContainsAny(line[:1], "%*#;") {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			return core.WrapError(err, core.EMALFORMED, "%s:%d: %s", source, lineno, core.UserMessage(err))
		}
		if e == nil {
			tracer().Errorf("%s:%d: ignoring font map line %q", source, lineno, line)
			continue
		}
		m.Add(e)
	}
	if err := scanner.Err(); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot read font map %s", source)
	}
	return nil
}

// ParseLine parses a single map line. It returns nil for lines without a
// TeX font name.
func ParseLine(line string) (*Entry, error) {
	line = strings.TrimLeft(strings.TrimSpace(line), "+-=")
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	e := &Entry{Extend: 1}
	var names []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.quoted:
			e.Effects = strings.TrimSpace(tok.text)
			parseEffects(e)
		case strings.HasPrefix(tok.text, "<"):
			file := strings.TrimLeft(tok.text, "<[")
			if file == "" && i+1 < len(tokens) {
				i++
				file = tokens[i].text
			}
			if strings.HasSuffix(file, ".enc") {
				e.Encoding = file
			} else if file != "" {
				e.FontFile = file
			}
		default:
			if _, err := strconv.Atoi(tok.text); err == nil && len(names) >= 1 {
				continue // pdftex font flags
			}
			names = append(names, tok.text)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	e.TeXName = names[0]
	if len(names) > 1 {
		e.PSName = names[1]
	}
	return e, nil
}

func parseEffects(e *Entry) {
	words := strings.Fields(e.Effects)
	for i := 1; i < len(words); i++ {
		switch words[i] {
		case "SlantFont":
			if x, err := strconv.ParseFloat(words[i-1], 64); err == nil {
				e.Slant = x
			}
		case "ExtendFont":
			if x, err := strconv.ParseFloat(words[i-1], 64); err == nil {
				e.Extend = x
			}
		case "ReEncodeFont":
			e.ReEncode = words[i-1]
		}
	}
}

type token struct {
	text   string
	quoted bool
}

func tokenize(line string) ([]token, error) {
	var tokens []token
	for {
		line = strings.TrimSpace(line)
		if line == "" {
			return tokens, nil
		}
		if line[0] == '"' {
			end := strings.IndexByte(line[1:], '"')
			if end < 0 {
				return nil, core.Error(core.EMALFORMED, "unterminated quote")
			}
			tokens = append(tokens, token{text: line[1 : end+1], quoted: true})
			line = line[end+2:]
			continue
		}
		end := strings.IndexAny(line, " \t\"")
		if end < 0 {
			end = len(line)
		}
		tokens = append(tokens, token{text: line[:end]})
		line = line[end:]
	}
}
