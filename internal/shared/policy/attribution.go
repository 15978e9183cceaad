package policy

// AttributionLabel is the user-facing edit hint. It never names the moderator.
type AttributionLabel string

const (
	LabelNone          AttributionLabel = ""
	LabelEdited        AttributionLabel = "edited"
	LabelEditedByAdmin AttributionLabel = "edited by admin"
)

// Attribution is derived from stored fields on every read; it is never persisted.
type Attribution struct {
	IsEdited bool
	Label    AttributionLabel
}

// EditedByAdmin reports whether the last edit was made by someone other than the author.
func (a Attribution) EditedByAdmin() bool {
	return a.Label == LabelEditedByAdmin
}

func ComputeEditAttribution(item *Lifecycle) Attribution {
	if item == nil || !item.IsEdited {
		return Attribution{}
	}
	if item.EditedBy != nil && *item.EditedBy != item.AuthorID {
		return Attribution{IsEdited: true, Label: LabelEditedByAdmin}
	}
	return Attribution{IsEdited: true, Label: LabelEdited}
}
