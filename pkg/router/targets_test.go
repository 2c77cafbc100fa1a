package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredTargetsAfterMutationVerb(t *testing.T) {
	targets := RequiredTargets("please edit config.go then run tests")
	assert.Contains(t, targets, "config.go")
}

func TestRequiredTargetsIgnoresGenericWords(t *testing.T) {
	targets := RequiredTargets("edit the file named main")
	assert.NotContains(t, targets, "the")
	assert.NotContains(t, targets, "file")
	assert.NotContains(t, targets, "named")
}

func TestRequiredTargetsDetectsPathLikeTokens(t *testing.T) {
	targets := RequiredTargets("please look at pkg/tools/replace.go for reference")
	assert.Contains(t, targets, "pkg/tools/replace.go")
}

func TestTargetSatisfiedByBasename(t *testing.T) {
	assert.True(t, TargetSatisfied("replace.go", "/abs/path/pkg/tools/replace.go"))
}

func TestTargetSatisfiedByDotfileConvention(t *testing.T) {
	assert.True(t, TargetSatisfied("gitignore", "/abs/path/.gitignore"))
}

func TestHasUnmetRequiredEdits(t *testing.T) {
	assert.True(t, HasUnmetRequiredEdits("edit config.go and update readme.md", []string{"/ws/config.go"}))
	assert.False(t, HasUnmetRequiredEdits("edit config.go", []string{"/ws/config.go"}))
}
