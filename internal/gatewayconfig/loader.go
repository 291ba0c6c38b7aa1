package gatewayconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

const (
	parseErrorTemplateConstant   = "invalid gateway configuration: %w"
	decodeErrorTemplateConstant  = "unexpected gateway configuration shape: %w"
	emptyDocumentMessageConstant = "configuration document is empty"
)

var errEmptyDocument = errors.New(emptyDocumentMessageConstant)

// LoadResult is the outcome of reading a gateway configuration file.
// Error is empty on success; otherwise Config and Document are empty.
type LoadResult struct {
	Path     string
	Config   Config
	Document map[string]any
	Error    string
}

// Failed reports whether the configuration could not be read or parsed.
func (result LoadResult) Failed() bool {
	return len(result.Error) > 0
}

// FileReader reads a whole file.
type FileReader func(path string) ([]byte, error)

// Load reads and parses the configuration at configPath using the operating system file reader.
func Load(configPath string) LoadResult {
	return LoadWithReader(configPath, os.ReadFile)
}

// LoadWithReader reads and parses the configuration at configPath with the provided reader.
func LoadWithReader(configPath string, readFile FileReader) LoadResult {
	if readFile == nil {
		readFile = os.ReadFile
	}

	result := LoadResult{Path: configPath, Document: map[string]any{}}

	contents, readError := readFile(configPath)
	if readError != nil {
		result.Error = readError.Error()
		return result
	}

	configuration, document, parseError := Parse(contents)
	if parseError != nil {
		result.Error = parseError.Error()
		return result
	}

	result.Config = configuration
	result.Document = document
	return result
}

// Parse decodes JSON with comments into the typed configuration and the raw document.
func Parse(contents []byte) (Config, map[string]any, error) {
	standardJSON := jsonc.ToJSON(contents)

	var document map[string]any
	if unmarshalError := json.Unmarshal(standardJSON, &document); unmarshalError != nil {
		return Config{}, nil, fmt.Errorf(parseErrorTemplateConstant, unmarshalError)
	}
	if document == nil {
		return Config{}, nil, fmt.Errorf(parseErrorTemplateConstant, errEmptyDocument)
	}

	var configuration Config
	if decodeError := decodeDocument(document, &configuration); decodeError != nil {
		return Config{}, nil, fmt.Errorf(decodeErrorTemplateConstant, decodeError)
	}

	return configuration, document, nil
}
