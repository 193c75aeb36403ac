package integration

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

func (s *StepsContext) iRunTheGraphQLQuery(query *godog.DocString) error {
	body, err := json.Marshal(map[string]string{"query": query.Content})
	if err != nil {
		return err
	}
	return s.do("POST", "/graphql", strings.NewReader(string(body)))
}

// theGraphQLResultShouldBe looks up a dotted path under "data". Numeric
// segments index into lists.
func (s *StepsContext) theGraphQLResultShouldBe(path, expected string) error {
	result, err := s.decode()
	if err != nil {
		return err
	}
	if errs, ok := result["errors"]; ok {
		return fmt.Errorf("unexpected GraphQL errors: %v", errs)
	}

	var current any = result["data"]
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[segment]
		case []any:
			var i int
			if _, err := fmt.Sscanf(segment, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return fmt.Errorf("no element %q in %s", segment, path)
			}
			current = node[i]
		default:
			return fmt.Errorf("path %s not found in %s", path, string(s.responseBody))
		}
	}

	if actual := format(current); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", path, expected, actual)
	}
	return nil
}

func (s *StepsContext) theGraphQLResponseShouldHaveAnError(fragment string) error {
	var result struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	for _, e := range result.Errors {
		if strings.Contains(e.Message, fragment) {
			return nil
		}
	}
	return fmt.Errorf("no GraphQL error containing %q in %s", fragment, string(s.responseBody))
}
