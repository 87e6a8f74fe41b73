// Package recipe loads YAML files that describe one or more builds.
package recipe

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Recipe struct {
	// Tag applies to every build that does not set its own.
	Tag    string  `yaml:"tag,omitempty"`
	Builds []Build `yaml:"builds"`
}

type Build struct {
	Dos    string `yaml:"dos"`
	Win    string `yaml:"win"`
	Output string `yaml:"output"`
	Tag    string `yaml:"tag,omitempty"`
}

// Load reads a recipe and resolves relative paths against its directory.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read recipe")
	}

	recipe, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "recipe %s", path)
	}

	return recipe, nil
}

func Parse(data []byte, dir string) (*Recipe, error) {
	recipe := &Recipe{}
	if err := yaml.Unmarshal(data, recipe); err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	if len(recipe.Builds) == 0 {
		return nil, errors.New("no builds defined")
	}

	for i := range recipe.Builds {
		build := &recipe.Builds[i]
		if build.Dos == "" || build.Win == "" || build.Output == "" {
			return nil, errors.Errorf("build %d: dos, win and output are required", i)
		}

		build.Dos = resolve(dir, build.Dos)
		build.Win = resolve(dir, build.Win)
		build.Output = resolve(dir, build.Output)
		if build.Tag == "" {
			build.Tag = recipe.Tag
		}
	}

	return recipe, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
