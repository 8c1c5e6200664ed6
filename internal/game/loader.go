package game

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Theme maps symbol indexes to the glyphs drawn on card faces.
type Theme struct {
	Glyphs []string
	Source string
}

// DefaultTheme has enough glyphs for the largest built-in level.
var DefaultTheme = Theme{
	Glyphs: strings.Split("A B C D E F G H I J K L M N O P Q R S T U V W X Y Z 1 2 3 4 5 6 7 8 9 @ # $ % & * + = ?", " "),
	Source: "builtin",
}

// Glyph returns the glyph for the i-th symbol, or its number when the theme runs short.
func (t Theme) Glyph(i int) string {
	if i >= 0 && i < len(t.Glyphs) {
		return t.Glyphs[i]
	}
	return fmt.Sprintf("%02d", i)
}

// LoadTheme loads glyphs from a list of paths (files or directories).
// Each non-blank line is one glyph; lines starting with # are comments.
func LoadTheme(paths []string) (Theme, error) {
	theme := Theme{Source: strings.Join(paths, ",")}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return Theme{}, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := os.ReadDir(path)
			if err != nil {
				return Theme{}, fmt.Errorf("failed to read dir %s: %w", path, err)
			}
			for _, entry := range files {
				if !entry.IsDir() {
					g, err := loadGlyphFile(filepath.Join(path, entry.Name()))
					if err != nil {
						return Theme{}, err
					}
					theme.Glyphs = append(theme.Glyphs, g...)
				}
			}
		} else {
			g, err := loadGlyphFile(path)
			if err != nil {
				return Theme{}, err
			}
			theme.Glyphs = append(theme.Glyphs, g...)
		}
	}

	if len(theme.Glyphs) == 0 {
		return Theme{}, fmt.Errorf("no glyphs found in %s", theme.Source)
	}
	return theme, nil
}

func loadGlyphFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var glyphs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		glyphs = append(glyphs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan file %s: %w", path, err)
	}

	return glyphs, nil
}
