package messages

type ErrorMsg struct {
	Err error
}

// SavedMsg reports a finished write of the keybinding file.
type SavedMsg struct {
	Path string
}

// FileChangedMsg reports that the file was changed on disk by someone else.
type FileChangedMsg struct {
	Path string
}
