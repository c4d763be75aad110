package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/HienLe2004/menuq/internal/mqerrors"
)

// Format is the encoding of a catalog file.
type Format int

const (
	FormatTOML Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FileInfo is the header every TOML catalog file must contain.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

type rawItem struct {
	Name    string   `toml:"name" json:"name"`
	Price   *int     `toml:"price" json:"price"`
	Options []string `toml:"options" json:"options"`
}

type tomlCatalog struct {
	Format  string    `toml:"format"`
	Type    string    `toml:"type"`
	Units   []string  `toml:"units"`
	Numbers []string  `toml:"numbers"`
	Items   []rawItem `toml:"item"`
}

type jsonCatalog struct {
	Menu   []rawItem `json:"menu"`
	Unit   []string  `json:"unit"`
	Number []string  `json:"number"`
}

// Load reads a catalog file from disk and creates a Menu from it. Files ending
// in ".json" are read as JSON in the {menu, unit, number} layout; all others
// are read as TOML catalog files.
func Load(path string) (*Menu, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	f := FormatTOML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f = FormatJSON
	}

	m, err := Decode(data, f)
	if err != nil {
		var cfgErr *mqerrors.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Source = path
			return nil, cfgErr
		}
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return m, nil
}

// Decode parses catalog data in the given format and creates a Menu from it.
func Decode(data []byte, f Format) (*Menu, error) {
	var cat Catalog
	var err error

	switch f {
	case FormatTOML:
		cat, err = decodeTOML(data)
	case FormatJSON:
		cat, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("unknown catalog format: %v", f)
	}
	if err != nil {
		return nil, err
	}

	return New(cat)
}

func decodeTOML(data []byte) (Catalog, error) {
	info, err := ScanFileInfo(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("detecting file type: %w", err)
	}
	if strings.ToUpper(info.Format) != "MENUQ" {
		return Catalog{}, mqerrors.Config("", "file does not have a 'format = \"MENUQ\"' entry")
	}
	if strings.ToUpper(info.Type) != "CATALOG" {
		return Catalog{}, mqerrors.Config("", "file type is %q, not \"CATALOG\"", info.Type)
	}

	var raw tomlCatalog
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Catalog{}, fmt.Errorf("decoding TOML: %w", err)
	}

	return fromRaw(raw.Items, raw.Units, raw.Numbers)
}

func decodeJSON(data []byte) (Catalog, error) {
	var raw jsonCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return Catalog{}, fmt.Errorf("decoding JSON: %w", err)
	}

	return fromRaw(raw.Menu, raw.Unit, raw.Number)
}

func fromRaw(items []rawItem, units, numbers []string) (Catalog, error) {
	cat := Catalog{
		Units:   units,
		Numbers: numbers,
	}

	var problems []string
	for i, ri := range items {
		if strings.TrimSpace(ri.Name) == "" {
			problems = append(problems, fmt.Sprintf("item[%d]: missing name", i))
			continue
		}
		if ri.Price == nil {
			problems = append(problems, fmt.Sprintf("item[%d] %q: missing price", i, ri.Name))
			continue
		}
		cat.Items = append(cat.Items, Item{
			Name:    ri.Name,
			Price:   *ri.Price,
			Options: ri.Options,
		})
	}

	if len(problems) > 0 {
		return Catalog{}, &mqerrors.ConfigError{Problems: problems}
	}
	return cat, nil
}

// ScanFileInfo reads the common header info from TOML catalog data. Only the
// bytes up to the first table header are parsed.
func ScanFileInfo(data []byte) (FileInfo, error) {
	topLevelEnd := -1
	onNewLine := true
	for b := range data {
		if onNewLine && data[b] == '[' {
			topLevelEnd = b
			break
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
