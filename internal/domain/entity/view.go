package entity

// View is the token of the screen currently displayed.
type View string

const (
	ViewHome View = "home"
	ViewAdd  View = "add"
	ViewEdit View = "edit"
)

// ParseView maps a token (also the "<name>-view" / "add-item-view" forms) to a View.
func ParseView(s string) (View, bool) {
	switch s {
	case "home", "home-view":
		return ViewHome, true
	case "add", "add-item-view":
		return ViewAdd, true
	case "edit", "edit-item-view":
		return ViewEdit, true
	}
	return "", false
}
