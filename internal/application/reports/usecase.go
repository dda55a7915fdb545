package reports

import (
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain/ledger"
)

// StatusSource entrega el consolidado de inventario (lo implementa el caso de
// uso de inventario).
type StatusSource interface {
	Status(asOf *time.Time) ([]*ledger.ProductStatus, error)
}

// PDFGenerator produce el documento imprimible a partir del consolidado.
type PDFGenerator interface {
	GenerateStatusPDF(status []*ledger.ProductStatus, generatedAt time.Time) ([]byte, error)
}

// UseCase arma el reporte de estado de inventario.
type UseCase struct {
	source    StatusSource
	generator PDFGenerator
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(source StatusSource, generator PDFGenerator) *UseCase {
	return &UseCase{source: source, generator: generator}
}

// StatusPDF reconstruye el consolidado (opcionalmente a una fecha de corte) y
// lo convierte en PDF.
func (uc *UseCase) StatusPDF(asOf *time.Time) ([]byte, error) {
	status, err := uc.source.Status(asOf)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStatusPDF(status, time.Now())
}
