package consultations

import (
	"context"
	"io"
)

// Repository es el sink de auditoría. Solo se escribe al exportar.
type Repository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	// List devuelve los registros más recientes primero.
	List(ctx context.Context, filter ListFilter) ([]Record, error)
}

// SnapshotStore guarda los snapshots entre el cálculo y la exportación.
// Get devuelve ErrSnapshotNotFound si no existe o ya expiró.
type SnapshotStore interface {
	Save(ctx context.Context, s Snapshot) error
	Get(ctx context.Context, id string) (Snapshot, error)
}

type ReportRenderer interface {
	Render(w io.Writer, s Snapshot) error
}

// HistoryExporter vuelca el historial a un archivo (planilla).
type HistoryExporter interface {
	Export(w io.Writer, records []Record) error
}
