package binary

// Framing literals of the NAR grammar.
const (
	Magic = "nix-archive-1"

	Open  = "("
	Close = ")"

	Type      = "type"
	Regular   = "regular"
	Symlink   = "symlink"
	Directory = "directory"

	Executable = "executable"
	Contents   = "contents"
	Target     = "target"

	Entry = "entry"
	Name  = "name"
	Node  = "node"

	// Empty is the value that follows the executable marker.
	Empty = ""
)
