package aot

import (
	"github.com/aurelia/aot/internal/evaluate"
	"github.com/aurelia/aot/internal/facts"
	"github.com/aurelia/aot/internal/source"
	"github.com/aurelia/aot/internal/value"
)

// resolveProgram drives partial evaluation (§4.3) over every decorator
// argument, static-member value, and define/register call argument in the
// program, replacing each top-level value.Value in place with whatever
// driver.Resolve follows it to (a literal, an object, an unresolved
// Reference/Import left as evidence of a gap, or an Unknown). Recognition
// and registration analysis read these fields directly, so resolution has
// to happen before RecognizeFile/registry.Build ever see them. Only
// imported names and class names are bound in a file's scope, so
// `@customElement(NAME)` where NAME is a module-scope const resolves to
// an Unknown, not to the const's literal.
func resolveProgram(driver *evaluate.Driver, program map[source.NormalizedPath]*facts.FileFacts) {
	for path, ff := range program {
		for _, class := range ff.Classes {
			for _, dec := range class.Decorators {
				resolveArgs(driver, path, dec.Args)
			}
			for _, sm := range class.StaticMembers {
				if sm.Value != nil {
					sm.Value = driver.Resolve(path, sm.Value).Value
				}
			}
		}
		for _, d := range ff.Defines {
			resolveArgs(driver, path, d.Args)
		}
		for _, r := range ff.Registers {
			resolveArgs(driver, path, r.Args)
		}
	}
}

func resolveArgs(driver *evaluate.Driver, path source.NormalizedPath, args []value.Value) {
	for i, a := range args {
		args[i] = driver.Resolve(path, a).Value
	}
}
