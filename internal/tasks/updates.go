package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	SaveSong
	DeleteSong
	CategoryUpdate
	ImportSongs
	ExportSongs
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case SaveSong:
		return "save_song"
	case DeleteSong:
		return "delete_song"
	case CategoryUpdate:
		return "category_update"
	case ImportSongs:
		return "import_songs"
	case ExportSongs:
		return "export_songs"
	default:
		return ""
	}
}

func fetchLibraryUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    step,
		Total:   total,
		Message: "Carregando biblioteca...",
	}
}

func fetchDoneUpdate(songCount, categoryCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Biblioteca carregada: %d músicas, %d categorias", songCount, categoryCount),
	}
}

func savingSongUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveSong,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Salvando música: %s...", title),
	}
}

func fanOutUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CategoryUpdate,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Atualizando: %s", step, total, title),
	}
}

func importingUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Importando %d músicas...", total),
	}
}

func exportingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSongs,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Exportando %d músicas...", total),
	}
}
