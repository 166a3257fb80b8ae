package pbnjson

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/webosose/pbnjson-go/schema"
)

// CompilerOptions configures schema compilation the way a deployment's
// on-disk config typically would: a base URI $ref/$id resolve against,
// and a locale name. Only BaseURI is used by Compiler; Locale is decoded
// (defaulting to "en") but nothing in this module reads it.
type CompilerOptions struct {
	BaseURI string `yaml:"baseURI"`
	Locale  string `yaml:"locale"`
}

// LoadOptionsYAML decodes CompilerOptions from a YAML document.
func LoadOptionsYAML(data []byte) (*CompilerOptions, error) {
	var opts CompilerOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, newError(CategoryIO, "decoding compiler options: %v", err)
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	return &opts, nil
}

// LoadOptionsYAMLFile reads path and decodes it with LoadOptionsYAML.
func LoadOptionsYAMLFile(path string) (*CompilerOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(CategoryIO, "reading %s: %v", path, err)
	}
	return LoadOptionsYAML(data)
}

// Compiler builds a schema.Compiler configured per o.
func (o *CompilerOptions) Compiler() *schema.Compiler {
	base := o.BaseURI
	if base == "" {
		return schema.NewCompiler()
	}
	return schema.NewCompiler(schema.WithBaseURI(base))
}
