package testutil

// PlanDocument is a short plan with one item in each state.
func PlanDocument() *Builder {
	return NewBuilder().
		WithHeading("Plan").
		Done("write scanner").
		NotDone("write docs").
		InProgress("wire viewer")
}

// NestedDocument mixes bullets, indentation and alternate markers.
func NestedDocument() *Builder {
	return NewBuilder().
		WithHeading("Release").
		Done("tag build", Bullet("- ")).
		NotDone("publish notes", Bullet("- ")).
		Done("changelog", Bullet("- "), Indent(2), Marker('X')).
		InProgress("announce", Bullet("1. ")).
		WithLine("").
		WithLine("Links like [a](b) are not items.")
}
