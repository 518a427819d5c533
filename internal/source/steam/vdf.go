package steam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// KeyValues is a parsed Valve KeyValues block. Values are strings or nested
// KeyValues. Keys are stored as written; use Get for Steam's case-insensitive
// lookup.
type KeyValues map[string]interface{}

// Get returns the value stored under key, ignoring case
func (kv KeyValues) Get(key string) (interface{}, bool) {
	if v, ok := kv[key]; ok {
		return v, true
	}
	for k, v := range kv {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// String returns the string value under key, or "" when absent or a block
func (kv KeyValues) String(key string) string {
	v, _ := kv.Get(key)
	s, _ := v.(string)
	return s
}

// Block returns the nested block under key, or nil
func (kv KeyValues) Block(key string) KeyValues {
	v, _ := kv.Get(key)
	b, _ := v.(KeyValues)
	return b
}

var errUnexpectedEOF = errors.New("vdf: unexpected end of input")

// ParseVDF reads a text KeyValues document (libraryfolders.vdf, appmanifest
// .acf files) and returns its top level.
func ParseVDF(r io.Reader) (KeyValues, error) {
	lx := &lexer{r: bufio.NewReader(r)}
	root, err := parseBlock(lx, false)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func parseBlock(lx *lexer, nested bool) (KeyValues, error) {
	kv := make(KeyValues)
	for {
		tok, err := lx.next()
		if err == io.EOF {
			if nested {
				return nil, errUnexpectedEOF
			}
			return kv, nil
		}
		if err != nil {
			return nil, err
		}

		switch tok.kind {
		case tokClose:
			if !nested {
				return nil, fmt.Errorf("vdf: unexpected '}' on line %d", tok.line)
			}
			return kv, nil
		case tokOpen:
			return nil, fmt.Errorf("vdf: unexpected '{' on line %d", tok.line)
		}

		key := tok.text
		val, err := lx.next()
		if err == io.EOF {
			return nil, errUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}

		switch val.kind {
		case tokOpen:
			child, err := parseBlock(lx, true)
			if err != nil {
				return nil, err
			}
			kv[key] = child
		case tokString:
			kv[key] = val.text
		default:
			return nil, fmt.Errorf("vdf: missing value for %q on line %d", key, val.line)
		}
	}
}

type tokenKind int

const (
	tokString tokenKind = iota
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	r    *bufio.Reader
	line int
}

func (lx *lexer) next() (token, error) {
	if err := lx.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	c, _, err := lx.r.ReadRune()
	if err != nil {
		return token{}, err
	}

	switch c {
	case '{':
		return token{kind: tokOpen, line: lx.line + 1}, nil
	case '}':
		return token{kind: tokClose, line: lx.line + 1}, nil
	case '"':
		return lx.quoted()
	default:
		_ = lx.r.UnreadRune()
		return lx.bare()
	}
}

func (lx *lexer) skipSpaceAndComments() error {
	for {
		b, err := lx.r.Peek(1)
		if err != nil {
			return err
		}
		switch b[0] {
		case '\n':
			lx.line++
			_, _ = lx.r.ReadByte()
		case ' ', '\t', '\r':
			_, _ = lx.r.ReadByte()
		case '/':
			two, _ := lx.r.Peek(2)
			if len(two) < 2 || two[1] != '/' {
				return nil
			}
			if _, err := lx.r.ReadString('\n'); err != nil {
				return err
			}
			lx.line++
		default:
			return nil
		}
	}
}

func (lx *lexer) quoted() (token, error) {
	line := lx.line + 1
	var sb strings.Builder
	for {
		c, _, err := lx.r.ReadRune()
		if err == io.EOF {
			return token{}, fmt.Errorf("vdf: unclosed quote on line %d", line)
		}
		if err != nil {
			return token{}, err
		}
		switch c {
		case '"':
			return token{kind: tokString, text: sb.String(), line: line}, nil
		case '\\':
			esc, _, err := lx.r.ReadRune()
			if err != nil {
				return token{}, fmt.Errorf("vdf: unclosed quote on line %d", line)
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				// Windows paths in libraryfolders.vdf are written as "C:\\Program Files"
				sb.WriteRune(esc)
			}
		case '\n':
			lx.line++
			sb.WriteRune(c)
		default:
			sb.WriteRune(c)
		}
	}
}

func (lx *lexer) bare() (token, error) {
	line := lx.line + 1
	var sb strings.Builder
	for {
		c, _, err := lx.r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token{}, err
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '{' || c == '}' || c == '"' {
			_ = lx.r.UnreadRune()
			break
		}
		sb.WriteRune(c)
	}
	return token{kind: tokString, text: sb.String(), line: line}, nil
}

// libraryPaths lists library folders from a parsed libraryfolders.vdf. Both the
// current format (numbered blocks with a "path" key) and the older one
// (numbered keys with the path as value) are accepted.
func libraryPaths(root KeyValues) []string {
	lf := root.Block("libraryfolders")
	if lf == nil {
		lf = root.Block("LibraryFolders")
	}
	if lf == nil {
		return nil
	}

	var paths []string
	for i := 0; ; i++ {
		v, ok := lf.Get(strconv.Itoa(i))
		if !ok {
			break
		}
		switch entry := v.(type) {
		case KeyValues:
			if p := entry.String("path"); p != "" {
				paths = append(paths, p)
			}
		case string:
			if entry != "" {
				paths = append(paths, entry)
			}
		}
	}
	return paths
}

// AppManifest holds the fields of an appmanifest_<id>.acf file we use
type AppManifest struct {
	AppID      string
	Name       string
	InstallDir string
}

// ParseAppManifest parses the contents of an appmanifest_<id>.acf file
func ParseAppManifest(r io.Reader) (AppManifest, error) {
	root, err := ParseVDF(r)
	if err != nil {
		return AppManifest{}, err
	}
	state := root.Block("AppState")
	if state == nil {
		return AppManifest{}, errors.New("vdf: missing AppState")
	}
	return AppManifest{
		AppID:      state.String("appid"),
		Name:       state.String("name"),
		InstallDir: state.String("installdir"),
	}, nil
}
