// Package config handles the pyjit project file, pyjit.yaml or pyjit.toml.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/pyjit/logger"
	"github.com/pontaoski/pyjit/toolchain"
)

// Names of the project file, in lookup order.
var FileNames = []string{"pyjit.yaml", "pyjit.toml"}

type Project struct {
	Package         string   `yaml:"Package" toml:"package"`
	Output          string   `yaml:"Output" toml:"output"`
	Compiler        string   `yaml:"Compiler" toml:"compiler"`
	Flags           []string `yaml:"Flags" toml:"flags"`
	EmbedSignatures bool     `yaml:"EmbedSignatures" toml:"embed-signatures"`
	Workers         int      `yaml:"Workers,omitempty" toml:"workers"`
	Log             Log      `yaml:"Log" toml:"log"`

	// Dir is the directory holding the project file, set at load time.
	Dir string `yaml:"-" toml:"-"`
}

type Log struct {
	Level  string `yaml:"Level" toml:"level"`
	Format string `yaml:"Format" toml:"format"`
}

// New returns a project with every default filled in.
func New(pkg string) *Project {
	p := &Project{Package: pkg}
	p.applyDefaults()
	return p
}

func (p *Project) applyDefaults() {
	if p.Output == "" {
		p.Output = "cache"
	}
	if p.Compiler == "" {
		p.Compiler = "g++"
	}
	if p.Flags == nil {
		p.Flags = []string{"-O2"}
	}
	if p.Log.Level == "" {
		p.Log.Level = "info"
	}
	if p.Log.Format == "" {
		p.Log.Format = "text"
	}
}

// Load reads a project file, choosing the decoder by extension.
func Load(path string) (*Project, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var p Project
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, &p)
	case ".toml":
		_, err = toml.Decode(string(data), &p)
	default:
		return nil, fmt.Errorf("unknown project file format %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	p.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	p.applyDefaults()

	return &p, nil
}

// FindAndLoad walks up from startDir looking for a project file. It
// returns nil without an error when there is none.
func FindAndLoad(startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return Load(path)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Save writes the project as YAML.
func (p *Project) Save(path string) error {
	out, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, out, 0o644)
}

func (p *Project) Validate() error {
	if p.Package == "" {
		return fmt.Errorf("Package must be set")
	}
	if strings.ContainsAny(p.Package, `/\ `) {
		return fmt.Errorf("Package %q must be a plain name", p.Package)
	}
	if p.Workers < 0 {
		return fmt.Errorf("Workers must not be negative, got %d", p.Workers)
	}
	if p.EmbedSignatures && !toolchain.IsClang(p.Compiler) {
		return fmt.Errorf("EmbedSignatures needs clang to compile LLVM IR, Compiler is %s", p.Compiler)
	}
	if _, err := logger.ParseLevel(p.Log.Level); err != nil {
		return err
	}
	switch p.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format '%s'", p.Log.Format)
	}
	return nil
}

// OutputDir is Output resolved against the project directory.
func (p *Project) OutputDir() string {
	if filepath.IsAbs(p.Output) || p.Dir == "" {
		return p.Output
	}
	return filepath.Join(p.Dir, p.Output)
}

// SourcePath is where the generated C++ for the project goes.
func (p *Project) SourcePath() string {
	return filepath.Join(p.OutputDir(), p.Package+".cpp")
}

// IRPath is where the signature module goes when EmbedSignatures is set.
func (p *Project) IRPath() string {
	return filepath.Join(p.OutputDir(), p.Package+".ll")
}

// SignaturesPath is where the signature table is written as JSON.
func (p *Project) SignaturesPath() string {
	return filepath.Join(p.OutputDir(), p.Package+".json")
}

// LibraryPath is the shared object the build produces.
func (p *Project) LibraryPath() string {
	return filepath.Join(p.OutputDir(), "lib"+p.Package+".so")
}

func (p *Project) CompilerConfig() toolchain.Compiler {
	return toolchain.Compiler{Path: p.Compiler, Flags: p.Flags}
}

func (p *Project) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	if level, err := logger.ParseLevel(p.Log.Level); err == nil {
		cfg.Level = level
	}
	cfg.Format = p.Log.Format
	return cfg
}
