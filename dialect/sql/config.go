package sql

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/bricks/dialect"
)

// Config is the file form of an Env:
//
//	dialect: postgres
//	abbrevs:
//	  usr: user
//	  psn: person
//	join:
//	  convention: alias_fk
//	  fk_suffix: _fk
//	  pk: pk
//	views:
//	  - name: activeUsers
//	    base: usr
//	    joins:
//	      - table: psn
//	    where:
//	      usr.active: true
type Config struct {
	// Dialect is the dialect name. Default is postgres.
	Dialect string `yaml:"dialect,omitempty"`

	// Abbrevs maps table abbreviations to full table names.
	Abbrevs map[string]string `yaml:"abbrevs,omitempty"`

	// Join configures join criteria inference.
	Join JoinConfig `yaml:"join,omitempty"`

	// Views are defined in order, so a view may reference an earlier one.
	Views []ViewConfig `yaml:"views,omitempty"`
}

// JoinConfig selects a built-in join criteria convention.
type JoinConfig struct {
	// Convention is "alias_fk" (AliasFK), "singular_id" (SingularFK) or
	// empty for no inference.
	Convention string `yaml:"convention,omitempty"`

	// FKSuffix is the foreign key suffix of alias_fk. Default is "_fk".
	FKSuffix string `yaml:"fk_suffix,omitempty"`

	// PK is the primary key column of alias_fk. Default is "pk".
	PK string `yaml:"pk,omitempty"`
}

// ViewConfig is the file form of a View.
type ViewConfig struct {
	Name  string           `yaml:"name"`
	Base  string           `yaml:"base"`
	Joins []ViewJoinConfig `yaml:"joins,omitempty"`
	Where Pairs            `yaml:"where,omitempty"`
}

// ViewJoinConfig is one join of a ViewConfig.
type ViewJoinConfig struct {
	// Table is the table token, "table" or "table alias".
	Table string `yaml:"table"`

	// Type is inner (default), left, right, full or cross.
	Type string `yaml:"type,omitempty"`

	// On maps columns to columns. Empty means inferred.
	On Pairs `yaml:"on,omitempty"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sql: reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("sql: parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Dialect {
	case "", dialect.Postgres, dialect.MySQL, dialect.SQLite:
	default:
		return fmt.Errorf("sql: config: unknown dialect %q", c.Dialect)
	}
	switch c.Join.Convention {
	case "", "alias_fk", "singular_id":
	default:
		return fmt.Errorf("sql: config: unknown join convention %q", c.Join.Convention)
	}
	seen := make(map[string]bool, len(c.Views))
	for i, v := range c.Views {
		if v.Name == "" || v.Base == "" {
			return fmt.Errorf("sql: config: view %d: name and base are required", i+1)
		}
		if seen[v.Name] {
			return fmt.Errorf("sql: config: view %q defined twice", v.Name)
		}
		seen[v.Name] = true
		for _, j := range v.Joins {
			if _, ok := joinKinds[j.Type]; !ok {
				return fmt.Errorf("sql: config: view %q: unknown join type %q", v.Name, j.Type)
			}
		}
	}
	return nil
}

var joinKinds = map[string]JoinKind{
	"":      InnerJoin,
	"inner": InnerJoin,
	"left":  LeftJoin,
	"right": RightJoin,
	"full":  FullJoin,
	"cross": CrossJoin,
}

// Options returns the Env options described by the configuration.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Dialect != "" {
		opts = append(opts, WithDialect(c.Dialect))
	}
	if len(c.Abbrevs) > 0 {
		opts = append(opts, WithAbbrevs(c.Abbrevs))
	}
	switch c.Join.Convention {
	case "alias_fk":
		suffix, pk := c.Join.FKSuffix, c.Join.PK
		if suffix == "" {
			suffix = "_fk"
		}
		if pk == "" {
			pk = "pk"
		}
		opts = append(opts, WithJoinCriteria(AliasFK(suffix, pk)))
	case "singular_id":
		opts = append(opts, WithJoinCriteria(SingularFK()))
	}
	return opts
}

// Env builds an Env from the configuration and defines its views. Extra
// options are applied after the configured ones.
func (c *Config) Env(opts ...Option) (*Env, error) {
	e := NewEnv(append(c.Options(), opts...)...)
	for _, vc := range c.Views {
		v := e.DefineView(vc.Name, vc.Base)
		for _, j := range vc.Joins {
			args := []any{j.Table}
			if len(j.On) > 0 {
				args = append(args, j.On)
			}
			v.addJoin(joinKinds[j.Type], args)
		}
		if len(vc.Where) > 0 {
			v.Where(vc.Where)
		}
		if err := v.Err(); err != nil {
			return nil, err
		}
	}
	e.logger.Debug("configured env", slog.String("dialect", e.dialect), slog.Int("views", len(c.Views)))
	return e, nil
}
