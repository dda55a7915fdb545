package transfer

import (
	"archive/zip"
	"context"

	"github.com/jhoicas/Suministros-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Importación y restauración total son
// todo-o-nada gracias a este puerto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sites repository.SiteRepository,
		categories repository.CategoryRepository,
		products repository.ProductRepository,
		records repository.LedgerRepository,
	) error) error
}

// MediaStore es la porción del almacén de medios que usa el respaldo: volcar
// las fotos al zip y reemplazarlas desde un zip. Las operaciones sobre
// archivos no participan de la transacción de BD.
type MediaStore interface {
	ArchiveTo(zw *zip.Writer) error
	RestoreFromArchive(zr *zip.Reader) error
}
