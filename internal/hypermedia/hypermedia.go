package hypermedia

// Control is a state-conditional action descriptor attached to a representation.
type Control struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method"`
}

// Builder assembles a wire representation from an entity and attaches the controls
// whose conditions hold, in declaration order. It is pure given its inputs: the same
// entity and the same chain produce the same representation.
type Builder struct {
	entity    any
	represent func(any) any
	controls  []Control
}

// Of starts a builder over an entity or a sequence of entities.
func Of(entity any) *Builder {
	return &Builder{entity: entity}
}

// Representation appends a projection step. Steps compose in call order, each
// receiving the previous step's output; the final step must yield an object.
func (b *Builder) Representation(project func(any) any) *Builder {
	if prev := b.represent; prev != nil {
		b.represent = func(entity any) any {
			return project(prev(entity))
		}
	} else {
		b.represent = project
	}
	return b
}

// Link attaches a control when every supplied condition holds. With no condition the
// control is always attached.
func (b *Builder) Link(control Control, conditions ...bool) *Builder {
	for _, ok := range conditions {
		if !ok {
			return b
		}
	}
	b.controls = append(b.controls, control)
	return b
}

// Build runs the projection chain and merges the attached controls into the result
// under the "_links" key. Without any attached control the key is omitted.
func (b *Builder) Build() map[string]any {
	projected := b.entity
	if b.represent != nil {
		projected = b.represent(b.entity)
	}

	representation, ok := projected.(map[string]any)
	if !ok {
		representation = map[string]any{}
	}

	if len(b.controls) > 0 {
		representation["_links"] = b.controls
	}

	return representation
}
