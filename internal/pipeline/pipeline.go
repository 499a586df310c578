// Package pipeline implements the ordered normalization passes of
// spec.md §4.3: each Step rewrites the token stream of one intake.Unit,
// preserving stream invariants, and may emit diagnostics or a
// PipelineError that aborts the translation unit.
package pipeline

import (
	"fmt"

	"github.com/jhnc-oss/cppcheck-sub000/internal/bracket"
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/typedef"
)

// PipelineError is returned by a Step when the stream cannot continue
// safely; Run converts it into a fatal diagnostic and stops dispatching
// further steps for the unit (spec.md §4.1 "Failure semantics").
type PipelineError struct {
	ID      string
	Message string
	Line    int
	Column  int
	File    int
}

func (e *PipelineError) Error() string { return fmt.Sprintf("%s: %s", e.ID, e.Message) }

// Step is one named pass. Run must preserve the stream invariants
// (reciprocal bracket links, DAG'd AST links, monotone progress) before
// returning, even when it reports diagnostics.
type Step struct {
	Name string
	Run  func(u *intake.Unit) ([]diagnostic.Diagnostic, error)
}

// Steps lists the 50 normalization passes from spec.md §4.3 in the
// order they must run. Several adjacent bullet items in spec.md §4.3
// share one Step when they are naturally one rewrite sweep (e.g. step 7
// bundles pragma stripping, alternative-token expansion, header pruning
// and inline-asm removal).
var Steps = []Step{
	{"earlyValidation", EarlyValidation},
	{"combineStringLiterals", CombineStringLiterals},
	{"elideSQLBlocks", ElideSQLBlocks},
	{"linkBracketsPass1", LinkBracketsPass1},
	{"parenthesizeLibraryCalls", ParenthesizeLibraryCalls},
	{"foldDebugIntrinsics", FoldDebugIntrinsics},
	{"stripPragmasAndAltTokens", StripPragmasAndAltTokens},
	{"splitTemplateRightAngle", SplitTemplateRightAngle},
	{"removeExtraTemplateKeyword", RemoveExtraTemplateKeyword},
	{"joinSpaceshipAndAttributes", JoinSpaceshipAndAttributes},
	{"codeHealthCheck", CodeHealthCheck},
	{"flattenNestedNamespaces", FlattenNestedNamespaces},
	{"decodeCppcheckAttributes", DecodeCppcheckAttributes},
	{"foldOperators", FoldOperators},
	{"concatSignedNumbers", ConcatSignedNumbers},
	{"removeExternC", RemoveExternC},
	{"simplifyCompoundStatement", SimplifyCompoundStatement},
	{"insertBraces", InsertBraces},
	{"parenthesizeSizeof", ParenthesizeSizeof},
	{"canonicalizeArrayAccess", CanonicalizeArrayAccess},
	{"simplifyTemplateNumericArgs", SimplifyTemplateNumericArgs},
	{"convertKandRAndSplitDecls", ConvertKandRAndSplitDecls},
	{"expandCaseRangesAndLabels", ExpandCaseRangesAndLabels},
	{"detectGarbageTemplates", DetectGarbageTemplates},
	{"removeCallingConvention", RemoveCallingConvention},
	{"cleanupMacros", CleanupMacros},
	{"mapPlatformTypes", MapPlatformTypes},
	{"collapseStandardTypes", CollapseStandardTypes},
	{"simplifyBitfields", SimplifyBitfields},
	{"splitStructDecl", SplitStructDecl},
	{"foldBlockAssignment", FoldBlockAssignment},
	{"expandMultipleAssignment", ExpandMultipleAssignment},
	{"foldOperatorName", FoldOperatorName},
	{"removeRedundantParens", RemoveRedundantParens},
	{"renameTypeTraitIntrinsics", RenameTypeTraitIntrinsics},
	{"simplifyPointerAndFunctionPointer", SimplifyPointerAndFunctionPointer},
	{"convertInitializerToAssignment", ConvertInitializerToAssignment},
	{"splitVarDeclsSecondPass", SplitVarDeclsSecondPass},
	{"insertElseIfBraces", InsertElseIfBraces},
	{"assignVariableIDs", AssignVariableIDs},
	{"linkTemplateAngleBrackets", bracket.LinkTemplateAngleBrackets},
	{"markCppCasts", MarkCppCasts},
	{"inferArraySize", InferArraySize},
	{"prefixStdNames", PrefixStdNames},
	{"cleanupDoublePlusMinus", CleanupDoublePlusMinus},
	{"stampProgressAndIndexes", StampProgressAndIndexes},
	{"removeRedundantSemicolons", RemoveRedundantSemicolons},
	{"extractInitStatements", ExtractInitStatements},
	{"rewriteOverloadedOperatorCalls", RewriteOverloadedOperatorCalls},
	{"buildASTAndSymbols", BuildASTAndSymbols},
}

// Run dispatches every Step in order against u, stopping at the first
// fatal PipelineError (spec.md §4.3 "deterministic... same input produces
// byte-identical output and diagnostic ordering").
func Run(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	var diags []diagnostic.Diagnostic

	typedefDiags, err := typedef.Simplify(u)
	diags = append(diags, typedefDiags...)
	if err != nil {
		return diags, err
	}
	if invErr := u.Tokens.CheckBracketInvariant(); invErr != nil {
		return diags, fmt.Errorf("pipeline: invariant violated after typedef.Simplify: %w", invErr)
	}

	for _, step := range Steps {
		if u.Tokens.Terminated() {
			return diags, nil
		}
		stepDiags, err := step.Run(u)
		diags = append(diags, stepDiags...)
		if err != nil {
			var perr *PipelineError
			if asPipelineError(err, &perr) {
				diags = append(diags, diagnostic.New(
					[]diagnostic.Frame{{File: u.Files.Path(perr.File), Line: perr.Line, Column: perr.Column, SimplifiedPath: u.Files.Path(perr.File)}},
					diagnostic.SeverityError, perr.ID, perr.Message, diagnostic.CertaintyNormal))
				return diags, err
			}
			return diags, err
		}
		if invErr := u.Tokens.CheckBracketInvariant(); invErr != nil {
			return diags, fmt.Errorf("pipeline: invariant violated after %s: %w", step.Name, invErr)
		}
	}
	return diags, nil
}

func asPipelineError(err error, out **PipelineError) bool {
	if perr, ok := err.(*PipelineError); ok {
		*out = perr
		return true
	}
	return false
}
