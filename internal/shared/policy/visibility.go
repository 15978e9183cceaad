package policy

// Visibility is the read filter handed to repositories. Listing and counting
// must both be driven by the same value.
type Visibility struct {
	IncludeDeleted bool
}

// VisibilityFor computes the read filter for a viewer.
// Admins see deleted items; everyone else, including the author, does not.
func VisibilityFor(viewer *Actor) Visibility {
	return Visibility{IncludeDeleted: viewer.IsAdmin()}
}

// Allows applies the filter to a single item.
func (v Visibility) Allows(item *Lifecycle) bool {
	if item == nil {
		return false
	}
	return v.IncludeDeleted || !item.IsDeleted
}

// IsVisible reports whether viewer may see item on any read path.
func IsVisible(item *Lifecycle, viewer *Actor) bool {
	return VisibilityFor(viewer).Allows(item)
}
