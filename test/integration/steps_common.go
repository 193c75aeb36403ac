package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	server       *ServerInstance
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc, server: tc.Server}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.server != nil && s.server != s.tc.Server {
			s.server.Stop()
		}
		return ctx, nil
	})

	// Background steps
	sc.Step(`^an opsadmin server is running$`, s.anOpsadminServerIsRunning)
	sc.Step(`^an opsadmin server is running with lenient not-found$`, s.anOpsadminServerIsRunningWithLenientNotFound)

	// Request steps
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PUT|PATCH) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, s.theResponseHeaderShouldBe)
	sc.Step(`^the response should contain (\d+) records?$`, s.theResponseShouldContainRecords)
	sc.Step(`^the response total should be (\d+)$`, s.theResponseTotalShouldBe)
	sc.Step(`^the record ids should be "([^"]*)"$`, s.theRecordIDsShouldBe)
	sc.Step(`^the record field "([^"]*)" should be "([^"]*)"$`, s.theRecordFieldShouldBe)
	sc.Step(`^the response data should be null$`, s.theResponseDataShouldBeNull)
	sc.Step(`^the error code should be "([^"]*)"$`, s.theErrorCodeShouldBe)

	// Database steps
	sc.Step(`^the "([^"]*)" table should have (\d+) rows?$`, s.theTableShouldHaveRows)

	// GraphQL steps
	sc.Step(`^I run the GraphQL query:$`, s.iRunTheGraphQLQuery)
	sc.Step(`^the GraphQL result "([^"]*)" should be "([^"]*)"$`, s.theGraphQLResultShouldBe)
	sc.Step(`^the GraphQL response should have an error containing "([^"]*)"$`, s.theGraphQLResponseShouldHaveAnError)
}

// Background steps

func (s *StepsContext) anOpsadminServerIsRunning() error {
	return s.tc.Reset(context.Background())
}

func (s *StepsContext) anOpsadminServerIsRunningWithLenientNotFound() error {
	if err := s.tc.Reset(context.Background()); err != nil {
		return err
	}
	instance, err := StartServer(s.tc, ServerConfig{StrictNotFound: false})
	if err != nil {
		return err
	}
	s.server = instance
	return nil
}

// Request steps

func (s *StepsContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, s.server.ServerURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, path, nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.do(method, path, strings.NewReader(body.Content))
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseHeaderShouldBe(name, expected string) error {
	if actual := s.response.Header.Get(name); actual != expected {
		return fmt.Errorf("expected header %s to be %q, got %q", name, expected, actual)
	}
	return nil
}

func (s *StepsContext) decode() (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result, nil
}

func (s *StepsContext) records() ([]map[string]any, error) {
	result, err := s.decode()
	if err != nil {
		return nil, err
	}
	data, ok := result["data"].([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of records, got %s", string(s.responseBody))
	}
	out := make([]map[string]any, 0, len(data))
	for _, item := range data {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected record %v", item)
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *StepsContext) theResponseShouldContainRecords(count int) error {
	records, err := s.records()
	if err != nil {
		return err
	}
	if len(records) != count {
		return fmt.Errorf("expected %d records, got %d", count, len(records))
	}
	return nil
}

func (s *StepsContext) theResponseTotalShouldBe(expected int) error {
	result, err := s.decode()
	if err != nil {
		return err
	}
	total, ok := result["total"].(float64)
	if !ok {
		return fmt.Errorf("total not found in response")
	}
	if int(total) != expected {
		return fmt.Errorf("expected total %d, got %d", expected, int(total))
	}
	return nil
}

func (s *StepsContext) theRecordIDsShouldBe(expected string) error {
	records, err := s.records()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, format(r["id"]))
	}
	if actual := strings.Join(ids, ","); actual != expected {
		return fmt.Errorf("expected ids %q, got %q", expected, actual)
	}
	return nil
}

func (s *StepsContext) theRecordFieldShouldBe(field, expected string) error {
	result, err := s.decode()
	if err != nil {
		return err
	}
	record, ok := result["data"].(map[string]any)
	if !ok {
		return fmt.Errorf("expected a single record, got %s", string(s.responseBody))
	}
	if actual := format(record[field]); actual != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseDataShouldBeNull() error {
	result, err := s.decode()
	if err != nil {
		return err
	}
	data, ok := result["data"]
	if !ok || data != nil {
		return fmt.Errorf("expected null data, got %s", string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theErrorCodeShouldBe(expected string) error {
	result, err := s.decode()
	if err != nil {
		return err
	}
	body, ok := result["error"].(map[string]any)
	if !ok {
		return fmt.Errorf("expected an error body, got %s", string(s.responseBody))
	}
	if actual := format(body["code"]); actual != expected {
		return fmt.Errorf("expected error code %q, got %q", expected, actual)
	}
	return nil
}

// Database steps

func (s *StepsContext) theTableShouldHaveRows(table string, expected int) error {
	var count int64
	if err := s.tc.DB.Table(table).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != expected {
		return fmt.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
	return nil
}

// format renders a decoded JSON value the way it's written in feature files
func format(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	b, _ := json.Marshal(v)
	return string(b)
}
