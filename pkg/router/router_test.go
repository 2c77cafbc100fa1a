package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutcli/scout/pkg/llmport"
)

type scriptedClient struct {
	inferResults []llmport.InferResult
	inferCalls   int
	queryResults []string
	queryCalls   int
}

func (s *scriptedClient) Query(ctx context.Context, model, prompt string, tools []llmport.ToolDef) (string, error) {
	if s.queryCalls >= len(s.queryResults) {
		return "", nil
	}
	out := s.queryResults[s.queryCalls]
	s.queryCalls++
	return out, nil
}

func (s *scriptedClient) InferToolCall(ctx context.Context, model, prompt string, tools []llmport.ToolDef, force bool) (llmport.InferResult, error) {
	if s.inferCalls >= len(s.inferResults) {
		s.inferCalls++
		return llmport.InferResult{}, nil
	}
	out := s.inferResults[s.inferCalls]
	s.inferCalls++
	return out, nil
}

func (s *scriptedClient) ParseFunctionCall(raw string) (*llmport.ToolCall, error) {
	return nil, nil
}

func testTools() []llmport.ToolDef {
	return []llmport.ToolDef{{Name: "read_file"}, {Name: "write_file"}, {Name: "list_files"}}
}

func TestRouteStandardCallAccepted(t *testing.T) {
	client := &scriptedClient{inferResults: []llmport.InferResult{
		{Call: &llmport.ToolCall{Name: "read_file", Arguments: "{}"}},
	}}
	r := &Router{Client: client, Model: "m", Tools: testTools()}

	res, err := r.Route(context.Background(), Input{Step: 1, UserInput: "what is 2+2"})
	require.NoError(t, err)
	require.NotNil(t, res.Call)
	assert.Equal(t, "read_file", res.Call.Name)
}

func TestRouteForcesRepoProbeOnFirstStep(t *testing.T) {
	client := &scriptedClient{inferResults: []llmport.InferResult{
		{},
		{Call: &llmport.ToolCall{Name: "list_files", Arguments: "{}"}},
	}}
	r := &Router{Client: client, Model: "m", Tools: testTools()}

	res, err := r.Route(context.Background(), Input{Step: 1, UserInput: "where is the main function in src/"})
	require.NoError(t, err)
	require.NotNil(t, res.Call)
	assert.Equal(t, "list_files", res.Call.Name)
	assert.True(t, res.ConsumedRepoProbe)
}

func TestRouteTextFallbackForMutation(t *testing.T) {
	client := &scriptedClient{
		inferResults: []llmport.InferResult{{}},
		queryResults: []string{`TOOL_CALL write_file {"path":"a.txt","content":"x"}`},
	}
	r := &Router{Client: client, Model: "m", Tools: testTools()}

	res, err := r.Route(context.Background(), Input{Step: 3, UserInput: "edit the file a.txt"})
	require.NoError(t, err)
	require.NotNil(t, res.Call)
	assert.Equal(t, "write_file", res.Call.Name)
}

func TestRouteNoCallWhenNothingApplies(t *testing.T) {
	client := &scriptedClient{inferResults: []llmport.InferResult{{}}}
	r := &Router{Client: client, Model: "m", Tools: testTools()}

	res, err := r.Route(context.Background(), Input{Step: 3, UserInput: "what is the weather like"})
	require.NoError(t, err)
	assert.Nil(t, res.Call)
}
