package upload

import (
	"fmt"
	"os"

	"shelf/internal/domain"
)

// StageFile builds a LocalFile from a path on disk.
func StageFile(fpath string) (domain.LocalFile, error) {
	fd, err := os.Stat(fpath)
	if err != nil {
		return domain.LocalFile{}, err
	}
	if fd.IsDir() {
		return domain.LocalFile{}, fmt.Errorf("%s is a directory", fpath)
	}

	return domain.LocalFile{
		Name: fd.Name(),
		Path: fpath,
		Size: fd.Size(),
	}, nil
}
