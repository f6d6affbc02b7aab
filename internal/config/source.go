package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"seqsearch/internal/errors"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates sections: SEQSEARCH_SEARCH__MAX_ACCEPTS -> search.max_accepts.
const EnvPrefix = "SEQSEARCH_"

// Source loads one configuration layer. Sources are applied in order, later
// ones overriding earlier ones.
type Source interface {
	Name() string
	Load(k *koanf.Koanf) error
}

type defaultSource struct{}

func (defaultSource) Name() string { return "defaults" }

func (defaultSource) Load(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(defaultMap(), "."), nil)
}

// fileSource reads a YAML file. An empty path is skipped; a missing file
// named explicitly is an error.
type fileSource struct{ path string }

func (s fileSource) Name() string { return "file:" + s.path }

func (s fileSource) Load(k *koanf.Koanf) error {
	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); err != nil {
		return errors.IOf(err, "config file")
	}
	return k.Load(file.Provider(s.path), yaml.Parser())
}

type envSource struct{ prefix string }

func (s envSource) Name() string { return "env" }

func (s envSource) Load(k *koanf.Koanf) error {
	return k.Load(env.Provider(s.prefix, ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, s.prefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
}

// flagSource maps changed command-line flags onto config keys.
type flagSource struct{ fs *pflag.FlagSet }

func (s flagSource) Name() string { return "flags" }

func (s flagSource) Load(k *koanf.Koanf) error {
	if s.fs == nil {
		return nil
	}
	return k.Load(posflag.ProviderWithFlag(s.fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(s.fs, f)
	}), nil)
}

// Sources returns the standard layers: defaults, file, env, flags.
func Sources(configPath string, fs *pflag.FlagSet) []Source {
	return []Source{
		defaultSource{},
		fileSource{path: configPath},
		envSource{prefix: EnvPrefix},
		flagSource{fs: fs},
	}
}
