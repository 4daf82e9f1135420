package filestorage

// ArtifactStorage is the storage collaborator for document and contract
// artifacts. Lifecycle services persist only the ref strings it returns.
type ArtifactStorage interface {
	// Put stores the bytes under a generated ref and returns the ref.
	// subdir groups artifacts ("contracts", "documents"); ext is the file
	// extension including the dot.
	Put(data []byte, subdir, ext string) (string, error)

	// Get returns the bytes stored under ref.
	Get(ref string) ([]byte, error)

	// Delete removes the artifact stored under ref.
	Delete(ref string) error
}
