package agent

import (
	"github.com/anchorforge/anchorforge/internal/config"
	"github.com/anchorforge/anchorforge/internal/pipeline"
	"github.com/anchorforge/anchorforge/internal/stage"
)

// Stages builds the full step→stage routing table for the engine, with each
// stage bound to its configured model.
func Stages(llm LLM, models config.Models) map[pipeline.Step]stage.Stage {
	return map[pipeline.Step]stage.Stage{
		pipeline.StepInterpret: NewSpecInterpreter(llm, models.SpecInterpreter),
		pipeline.StepPlan:      NewProjectPlanner(llm, models.ProjectPlanner),
		pipeline.StepGenerate:  NewCodeGenerator(llm, models.CodeGenerator),
		pipeline.StepRepair:    NewDebugger(llm, models.Debugger),
	}
}
