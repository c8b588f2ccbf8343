// Package prompt turns input files and a refactor configuration into the text
// sent to the generation endpoint.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"refactorengine/internal/types"
)

// ResponseMIMEType is the structured response mode requested from the model.
const ResponseMIMEType = "application/json"

// Request is the payload handed to the generation client.
type Request struct {
	// Instruction carries the role, the configuration and the output contract.
	Instruction string
	// Files is the concatenated file-contents block.
	Files string
	// ResponseMIMEType is always application/json.
	ResponseMIMEType string
	// TargetLanguage is used as the language fallback when normalizing output.
	TargetLanguage string
}

// Field describes one output field of the response contract.
type Field struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

var outputFields = []Field{
	{Name: "summary", Type: "string", Description: "short summary of the main changes and the config files that were added"},
	{Name: "logs", Type: "[]string", Description: "processing log lines, in order"},
	{Name: "files", Type: "[]object", Required: true, Description: "every file of the refactored project"},
	{Name: "files[].id", Type: "string", Description: "unique identifier of the file"},
	{Name: "files[].name", Type: "string", Description: "file name with extension"},
	{Name: "files[].path", Type: "string", Description: "relative path inside the project, no leading '/'"},
	{Name: "files[].language", Type: "string", Description: "language tag of the content"},
	{Name: "files[].content", Type: "string", Required: true, Description: "full file content"},
}

var tasks = []string{
	"Refactor the code so that it runs (functional result).",
	"Organize the project with a conventional folder structure.",
	"Add the dependency/build files needed to install and run the project (package.json, requirements.txt or pyproject.toml, go.mod, pom.xml, ...).",
	"Add a README.md explaining how to install and run the project.",
}

const exampleOutput = `{
  "summary": "...",
  "logs": ["Read file X...", "Refactoring logic...", "Created requirements.txt..."],
  "files": [
    {"id": "new_1", "name": "user_controller.py", "path": "src/controllers/user_controller.py", "language": "python", "content": "..."},
    {"id": "config_1", "name": "requirements.txt", "path": "requirements.txt", "language": "plaintext", "content": "flask==3.0.0\n..."}
  ]
}`

// Build renders the request for files and cfg. It is pure: the same inputs
// always produce the same request.
func Build(files []types.FileRecord, cfg types.RefactorConfiguration) Request {
	return Request{
		Instruction:      Instruction(cfg),
		Files:            FileBlock(files),
		ResponseMIMEType: ResponseMIMEType,
		TargetLanguage:   cfg.TargetLanguage,
	}
}

// Instruction renders the instruction text. Every configuration field appears
// on its own labelled line, including empty ones.
func Instruction(cfg types.RefactorConfiguration) string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", "You are an AI refactoring and build engine. Read the input files, understand their logic, refactor them and package a complete project according to the configuration below.")
	writeSection(&buf, "CONFIGURATION", formatConfig(cfg))
	writeSection(&buf, "TASKS", formatList(tasks))
	writeSection(&buf, "OUTPUT", formatFields(outputFields))
	writeSection(&buf, "OUTPUT_FORMAT", "Return ONE plain JSON object (no markdown, no code fences, no prose) shaped like:\n"+exampleOutput)
	writeSection(&buf, "RULES", formatList([]string{
		"'path' must not start with '/'.",
		"Never omit the 'files' field; use an empty list if nothing is produced.",
	}))
	return strings.TrimSpace(buf.String()) + "\n"
}

// FileBlock concatenates every file in input order.
func FileBlock(files []types.FileRecord) string {
	var buf strings.Builder
	buf.WriteString("INPUT FILES:\n")
	for i, f := range files {
		fmt.Fprintf(&buf, "--- FILE %d: %s (%s) ---\n%s\n\n", i+1, f.Path, f.Language, f.Content)
	}
	return buf.String()
}

func formatConfig(cfg types.RefactorConfiguration) string {
	lines := []struct{ label, value string }{
		{"Goal", cfg.TargetGoal},
		{"Target language", cfg.TargetLanguage},
		{"Architecture", cfg.ArchitectureStyle},
		{"Naming convention", cfg.NamingConvention},
		{"Documentation", cfg.DocumentationLevel},
		{"Additional instructions", cfg.AdditionalPrompt},
	}
	var buf strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&buf, "%d. %s: %s\n", i+1, l.label, l.value)
	}
	return buf.String()
}

func formatFields(fields []Field) string {
	var buf strings.Builder
	for _, f := range fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&buf, "- %s (%s, %s): %s\n", f.Name, f.Type, req, f.Description)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
