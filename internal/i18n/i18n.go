package i18n

type Language string

const (
	English Language = "en"
	Italian Language = "it"
)

var currentLang = English

type Messages struct {
	// General
	Loading     string
	Error       string
	Offline     string
	Online      string
	Notes       string
	Trash       string
	Journal     string
	Collections string
	Unsaved     string
	Saved       string

	// List views
	NoNoteSelected string
	EmptyList      string
	EmptyTrashList string

	// Dialogs
	NewCollection         string
	CollectionPlaceholder string
	NewNote               string
	DeleteConfirm         string
	DeleteForeverConfirm  string
	EmptyTrashConfirm     string
	Password              string

	// Journal
	Mood     string
	HourHint string

	// Keys
	KeyUp      string
	KeyDown    string
	KeyEdit    string
	KeyNew     string
	KeyDelete  string
	KeyRestore string
	KeyTrash   string
	KeyQuit    string
	KeyEscape  string
	KeyJournal string
	KeyRefresh string
}

var english = Messages{
	Loading:     "Loading...",
	Error:       "Error",
	Offline:     "offline",
	Online:      "online",
	Notes:       "Notes",
	Trash:       "Trash",
	Journal:     "Journal",
	Collections: "Collections",
	Unsaved:     "unsaved",
	Saved:       "saved",

	NoNoteSelected: "No note selected",
	EmptyList:      "No notes yet. Press n to create one.",
	EmptyTrashList: "Trash is empty.",

	NewCollection:         "New collection",
	CollectionPlaceholder: "Collection name",
	NewNote:               "New note",
	DeleteConfirm:         "Move to trash? (y/n)",
	DeleteForeverConfirm:  "Delete forever? (y/n)",
	EmptyTrashConfirm:     "Empty trash? (y/n)",
	Password:              "Password: ",

	Mood:     "Mood",
	HourHint: "Use +/- to move between hours",

	KeyUp:      "up",
	KeyDown:    "down",
	KeyEdit:    "edit",
	KeyNew:     "new note",
	KeyDelete:  "delete",
	KeyRestore: "restore",
	KeyTrash:   "toggle trash",
	KeyQuit:    "quit",
	KeyEscape:  "back",
	KeyJournal: "journal",
	KeyRefresh: "refresh",
}

var italian = Messages{
	Loading:     "Caricamento...",
	Error:       "Errore",
	Offline:     "offline",
	Online:      "online",
	Notes:       "Note",
	Trash:       "Cestino",
	Journal:     "Diario",
	Collections: "Raccolte",
	Unsaved:     "non salvato",
	Saved:       "salvato",

	NoNoteSelected: "Nessuna nota selezionata",
	EmptyList:      "Nessuna nota. Premi n per crearne una.",
	EmptyTrashList: "Il cestino è vuoto.",

	NewCollection:         "Nuova raccolta",
	CollectionPlaceholder: "Nome raccolta",
	NewNote:               "Nuova nota",
	DeleteConfirm:         "Spostare nel cestino? (y/n)",
	DeleteForeverConfirm:  "Eliminare definitivamente? (y/n)",
	EmptyTrashConfirm:     "Svuotare il cestino? (y/n)",
	Password:              "Password: ",

	Mood:     "Umore",
	HourHint: "Usa +/- per cambiare ora",

	KeyUp:      "su",
	KeyDown:    "giù",
	KeyEdit:    "modifica",
	KeyNew:     "nuova nota",
	KeyDelete:  "elimina",
	KeyRestore: "ripristina",
	KeyTrash:   "cestino",
	KeyQuit:    "esci",
	KeyEscape:  "indietro",
	KeyJournal: "diario",
	KeyRefresh: "aggiorna",
}

func SetLanguage(lang Language) {
	currentLang = lang
}

func T() Messages {
	switch currentLang {
	case Italian:
		return italian
	default:
		return english
	}
}
