package diagnostics

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

const lspSource = "coolc"

// ToLSP groups diagnostics by file, in order of first appearance, as
// publishDiagnostics payloads. Program-level diagnostics without a file
// are attached to the first file seen, or to an empty URI when there is
// none. LSP lines are zero based.
func ToLSP(diags []Diagnostic) []protocol.PublishDiagnosticsParams {
	var (
		order  []string
		byFile = make(map[string][]protocol.Diagnostic)
	)

	fileOf := func(d Diagnostic) string {
		if d.File != "" || len(order) == 0 {
			return d.File
		}
		return order[0]
	}

	for _, d := range diags {
		file := fileOf(d)
		if _, seen := byFile[file]; !seen {
			order = append(order, file)
		}
		byFile[file] = append(byFile[file], toProtocol(d))
	}

	params := make([]protocol.PublishDiagnosticsParams, 0, len(order))
	for _, file := range order {
		var docURI protocol.DocumentURI
		if file != "" {
			docURI = protocol.DocumentURI(uri.File(file))
		}
		params = append(params, protocol.PublishDiagnosticsParams{
			URI:         docURI,
			Diagnostics: byFile[file],
		})
	}
	return params
}

func toProtocol(d Diagnostic) protocol.Diagnostic {
	line := uint32(0)
	if d.Line > 0 {
		line = uint32(d.Line - 1)
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: 0},
			End:   protocol.Position{Line: line + 1, Character: 0},
		},
		Severity: protocol.DiagnosticSeverityError,
		Code:     d.Kind.String(),
		Source:   lspSource,
		Message:  d.Message,
	}
}
