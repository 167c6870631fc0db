package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	kitouterrors "github.com/kitout-sh/kitout/pkg/errors"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default parses and validates the embedded catalog.
func Default() (*Catalog, error) {
	return parse(defaultCatalog, "embedded default catalog")
}

// Parse reads, parses, and validates a catalog file.
func Parse(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kitouterrors.NewParseError(path, 0, fmt.Errorf("failed to read catalog: %w", err))
	}
	return parse(data, path)
}

func parse(data []byte, source string) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		line := extractLineNumber(err)
		return nil, kitouterrors.NewParseError(source, line, err)
	}

	if err := Validate(&cat); err != nil {
		return nil, err
	}

	return &cat, nil
}

// extractLineNumber pulls the line number out of a yaml.v3 error message.
// Returns 0 when the error carries no position.
func extractLineNumber(err error) int {
	if err == nil {
		return 0
	}

	re := regexp.MustCompile(`line (\d+)`)
	matches := re.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}

	return line
}
