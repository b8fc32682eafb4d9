package workflow

import (
	"slices"
	"testing"

	"github.com/poiesic/docflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The transition law: CanTransition(from, to) holds exactly when to is in
// NextStages(from), for every definition and every stage pair.
func TestCanTransitionLaw(t *testing.T) {
	for _, def := range Definitions() {
		t.Run(def.Name, func(t *testing.T) {
			for _, from := range def.Stages {
				for _, to := range def.Stages {
					expected := slices.Contains(def.NextStages(from), to)
					assert.Equal(t, expected, def.CanTransition(from, to),
						"%s: %q -> %q", def.Name, from, to)
				}
			}
		})
	}
}

func TestDefinitionStageGraphs(t *testing.T) {
	t.Run("prd", func(t *testing.T) {
		def, err := DefinitionByName(PRDWorkflow)
		require.NoError(t, err)

		assert.Equal(t, []string{"draft", "review", "approved", "implementation", "completed"}, def.Stages)
		assert.True(t, def.CanTransition("review", "approved"))
		assert.True(t, def.CanTransition("review", "draft"))
		assert.False(t, def.CanTransition("draft", "approved"))
		assert.True(t, def.RequiresApproval("approved"))
		assert.False(t, def.RequiresApproval("review"))
		assert.NotEmpty(t, def.AutomationRules("approved"))
	})

	t.Run("task", func(t *testing.T) {
		def, err := DefinitionByName(TaskWorkflow)
		require.NoError(t, err)

		assert.Equal(t, "todo", def.InitialStage())
		assert.True(t, def.CanTransition("in_progress", "done"))
		assert.True(t, def.CanTransition("review", "in_progress"))
		assert.False(t, def.CanTransition("done", "todo"))
		assert.True(t, def.RequiresApproval("done"))
	})

	t.Run("feature testing can bounce back", func(t *testing.T) {
		def, err := DefinitionByName(FeatureWorkflow)
		require.NoError(t, err)

		assert.True(t, def.CanTransition("testing", "implementation"))
		assert.True(t, def.CanTransition("testing", "completed"))
	})

	t.Run("terminal stages have no next stages", func(t *testing.T) {
		for _, def := range Definitions() {
			last := def.Stages[len(def.Stages)-1]
			assert.Empty(t, def.NextStages(last), "%s: %q", def.Name, last)
		}
	})
}

func TestDefinitionFor(t *testing.T) {
	assert.Equal(t, PRDWorkflow, DefinitionFor(core.DocumentTypePRD).Name)
	assert.Equal(t, VisionWorkflow, DefinitionFor(core.DocumentTypeVision).Name)
	assert.Equal(t, TaskWorkflow, DefinitionFor(core.DocumentTypeTask).Name)

	// Types without a dedicated workflow use the default.
	assert.Equal(t, DefaultWorkflow, DefinitionFor(core.DocumentTypeCode).Name)
	assert.Equal(t, DefaultWorkflow, DefinitionFor(core.DocumentTypeDocumentation).Name)
}

func TestDefinitionByName_Unknown(t *testing.T) {
	_, err := DefinitionByName("release_workflow")
	assert.ErrorIs(t, err, ErrUnknownWorkflow)
}

func TestDefinitionStagesAreClosed(t *testing.T) {
	// Every transition source and target must be a declared stage.
	for _, def := range Definitions() {
		for from, targets := range def.Transitions {
			assert.True(t, def.ValidStage(from), "%s: %q", def.Name, from)
			for _, to := range targets {
				assert.True(t, def.ValidStage(to), "%s: %q -> %q", def.Name, from, to)
			}
		}
		for _, stage := range def.Approvals {
			assert.True(t, def.ValidStage(stage), "%s: approval %q", def.Name, stage)
		}
	}
}
