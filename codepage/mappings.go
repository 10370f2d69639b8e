package codepage

// MappingEntry binds a wire codepage identifier to a codepage name for one
// printer family.
type MappingEntry struct {
	Value byte
	Name  string
}

// mappings holds the per-family ordered codepage tables. Order matters:
// AutoEncode candidate lists are derived from it, and earlier entries win.
var mappings = map[string][]MappingEntry{
	"epson": {
		{0, "cp437"},
		{2, "cp850"},
		{3, "cp860"},
		{4, "cp863"},
		{5, "cp865"},
		{16, "windows1252"},
		{17, "cp866"},
		{18, "cp852"},
		{19, "cp858"},
	},
	"bixolon": {
		{0, "cp437"},
		{2, "cp850"},
		{3, "cp860"},
		{4, "cp863"},
		{5, "cp865"},
		{16, "windows1252"},
		{17, "cp866"},
		{18, "cp852"},
		{19, "cp858"},
		{21, "cp862"},
		{24, "windows1250"},
		{25, "windows1251"},
	},
	"citizen": {
		{0, "cp437"},
		{2, "cp850"},
		{3, "cp860"},
		{4, "cp863"},
		{5, "cp865"},
		{7, "cp852"},
		{8, "cp866"},
		{16, "windows1252"},
		{19, "cp858"},
	},
	"star": {
		{0, "ascii"},
		{1, "cp437"},
		{3, "cp850"},
		{4, "cp860"},
		{5, "cp863"},
		{6, "cp865"},
		{7, "cp852"},
		{10, "cp855"},
		{11, "cp866"},
		{32, "windows1252"},
		{33, "windows1250"},
		{34, "windows1251"},
	},
	"zjiang": {
		{0, "cp437"},
		{2, "cp850"},
		{3, "cp860"},
		{4, "cp863"},
		{5, "cp865"},
		{6, "windows1251"},
		{7, "cp866"},
		{21, "windows1250"},
		{29, "cp852"},
		{31, "windows1253"},
		{32, "windows1254"},
		{33, "windows1252"},
	},
	"pos": {
		{0, "cp437"},
		{2, "cp850"},
		{3, "cp860"},
		{4, "cp863"},
		{5, "cp865"},
		{16, "windows1252"},
		{17, "cp866"},
		{18, "cp852"},
		{19, "cp858"},
		{30, "windows1251"},
		{41, "iso8859-2"},
		{46, "iso8859-15"},
	},
}

// Mapping returns the ordered wire table for a printer family.
func Mapping(family string) ([]MappingEntry, bool) {
	m, ok := mappings[family]
	return m, ok
}

// Candidates returns the family's codepage names in declared order, for use
// as an AutoEncode candidate list.
func Candidates(family string) []string {
	m := mappings[family]
	names := make([]string, 0, len(m))
	for _, e := range m {
		names = append(names, e.Name)
	}
	return names
}

// WireValue resolves a codepage name to its wire identifier within a family.
func WireValue(family, name string) (byte, bool) {
	for _, e := range mappings[family] {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}
