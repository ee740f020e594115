// Package story provides the scene sequence typed during a game.
package story

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typesymphony/internal/model"
)

// ErrInvalidStory reports unusable scene data. Scenes are fixtures, so
// callers treat it as fatal.
var ErrInvalidStory = errors.New("invalid story")

type storyFile struct {
	Scenes []sceneFile `toml:"scene"`
}

type sceneFile struct {
	Title string `toml:"title"`
	Text  string `toml:"text"`
	Image string `toml:"image"`
}

// Builtin returns a copy of the compiled-in story.
func Builtin() []model.Scene {
	out := make([]model.Scene, len(builtin))
	copy(out, builtin)
	return out
}

// Load returns the built-in story when path is empty, otherwise the scenes
// declared as [[scene]] tables in the TOML file at path. The result is
// validated and, when plain is set, typographic punctuation is folded to ASCII.
func Load(path string, plain bool) ([]model.Scene, error) {
	scenes := Builtin()
	if path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		scenes = loaded
	}
	if plain {
		for i := range scenes {
			scenes[i].Title = FoldPunctuation(scenes[i].Title)
			scenes[i].Text = FoldPunctuation(scenes[i].Text)
		}
	}
	if err := Validate(scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

func loadFile(path string) ([]model.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story: %w", err)
	}
	var f storyFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("failed to decode story %s: %w", path, err)
	}
	scenes := make([]model.Scene, 0, len(f.Scenes))
	for i, s := range f.Scenes {
		scenes = append(scenes, model.Scene{
			Index: i,
			Title: strings.TrimSpace(s.Title),
			Text:  strings.TrimSpace(s.Text),
			Image: strings.TrimSpace(s.Image),
		})
	}
	return scenes, nil
}

// Validate checks that the sequence is non-empty, ordered and that every
// scene has a title and text.
func Validate(scenes []model.Scene) error {
	if len(scenes) == 0 {
		return fmt.Errorf("%w: no scenes", ErrInvalidStory)
	}
	for i, s := range scenes {
		if s.Index != i {
			return fmt.Errorf("%w: scene %d has index %d", ErrInvalidStory, i+1, s.Index)
		}
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: scene %d has no title", ErrInvalidStory, i+1)
		}
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: scene %d has no text", ErrInvalidStory, i+1)
		}
	}
	return nil
}

var punctFolder = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", "\"",
	"”", "\"",
	"–", "-",
	"—", "-",
	"…", "...",
	"\u00a0", " ",
)

// FoldPunctuation replaces curly quotes, dashes, ellipses and non-breaking
// spaces with characters found on a plain keyboard.
func FoldPunctuation(s string) string {
	return punctFolder.Replace(s)
}
