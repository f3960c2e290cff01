package sourcedb

// Entry is the output record for one target.
type Entry struct {
	Srcs           ModuleMap `json:"srcs"`
	Deps           []string  `json:"deps"`
	PythonVersion  string    `json:"python_version"`
	PythonPlatform string    `json:"python_platform"`
	BuildfilePath  string    `json:"buildfile_path"`
}

// Database maps target labels to their entries. Entries are created on first
// encounter and afterwards only merged into.
type Database map[string]*Entry

// Result is the document emitted for a successful run.
type Result struct {
	DB   Database `json:"db"`
	Root string   `json:"root"`
}

// Fragment is the contribution of one traversal step to an entry.
type Fragment struct {
	Srcs          ModuleMap
	Deps          []string
	BuildfilePath string
}

// Entry returns the entry for label, creating it with the interpreter metadata
// when absent.
func (db Database) Entry(label string, interp Interpreter) *Entry {
	if entry, ok := db[label]; ok {
		return entry
	}
	entry := &Entry{
		Srcs:           make(ModuleMap),
		Deps:           []string{},
		PythonVersion:  interp.Version,
		PythonPlatform: interp.Platform,
	}
	db[label] = entry
	return entry
}

// Merge folds fragment into the entry for label. Merging the same fragment
// twice leaves the entry unchanged.
func (db Database) Merge(label string, fragment Fragment, interp Interpreter) {
	db.Entry(label, interp).merge(fragment)
}

func (e *Entry) merge(fragment Fragment) {
	for _, module := range sortedKeys(fragment.Srcs) {
		if _, ok := e.Srcs[module]; !ok {
			e.Srcs[module] = []string{}
		}
		for _, p := range fragment.Srcs[module] {
			e.Srcs.add(module, p)
		}
	}

	for _, dep := range fragment.Deps {
		if !contains(e.Deps, dep) {
			e.Deps = append(e.Deps, dep)
		}
	}

	if e.BuildfilePath == "" {
		e.BuildfilePath = fragment.BuildfilePath
	}
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
