package types

import "github.com/google/uuid"

const (
	newFileName     = "new_file.py"
	newFileLanguage = "python"
	newFilePath     = "/src/new_file.py"
	newFileContent  = "# New file content here"
)

// NewInputFile returns the file created by the "add file" action.
func NewInputFile() FileRecord {
	return FileRecord{
		ID:       uuid.NewString(),
		Name:     newFileName,
		Language: newFileLanguage,
		Content:  newFileContent,
		Path:     newFilePath,
	}
}

// DemoFiles is the seed shown when no source directory is configured.
func DemoFiles() []FileRecord {
	return []FileRecord{
		{
			ID:       "1",
			Name:     "legacy_processor.py",
			Language: "python",
			Path:     "/src/legacy_processor.py",
			Content: `def Do_Something(x, y):
    # Old style code
    res = x + y
    if res > 10:
        print("Big number")
    return res

class data_handler:
    def __init__(self):
        self.db_conn = None
    
    def connectDB(self, str):
        print("Connecting to " + str)
`,
		},
		{
			ID:       "2",
			Name:     "utils.js",
			Language: "javascript",
			Path:     "/src/utils.js",
			Content: `function calcDate(d) {
  var now = new Date();
  var diff = now - d;
  return diff;
}

module.exports = { calcDate };`,
		},
	}
}
