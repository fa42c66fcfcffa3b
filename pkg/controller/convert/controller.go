// Package convert implements the conversion pipeline: analyzer result
// files are located, each one is parsed by a fresh analyzer-specific
// parser into the canonical diagnostic model, and the merged messages are
// written as SARIF or JSON. One unreadable document fails the run's exit
// status but never aborts conversion of the other documents.
package convert

import (
	"io"

	"github.com/spf13/afero"

	"github.com/scanhub/repconv/pkg/config"
)

type Controller struct {
	fs        afero.Fs
	cfg       *config.Config
	param     *ParamConvert
	cfgFinder ConfigFinder
	cfgReader ConfigReader
	logger    *Logger
}

type ConfigFinder interface {
	Find(configFilePath string) (string, error)
}

type ConfigReader interface {
	Read(cfg *config.Config, configFilePath string) error
}

type ParamConvert struct {
	// ResultFiles are the analyzer result files passed as positional
	// arguments; when empty the config file patterns decide.
	ResultFiles    []string
	Format         string
	ConfigFilePath string
	Output         string
	OutputFormat   string
	Concurrency    int
	ToolVersion    string
	Stdout         io.Writer
	Stderr         io.Writer
}

func New(fs afero.Fs, cfgFinder ConfigFinder, cfgReader ConfigReader, param *ParamConvert) *Controller {
	return &Controller{
		fs:        fs,
		param:     param,
		cfgFinder: cfgFinder,
		cfgReader: cfgReader,
		cfg:       &config.Config{},
		logger:    NewLogger(param.Stderr),
	}
}
