package model

// Patch carries the fields an update overwrites. Nil fields are left alone.
// There is no ID field: updates never change a record's identifier.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Date        *string   `json:"date,omitempty"`
	DateSort    *string   `json:"dateSort,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	IconBg      *string   `json:"iconBg,omitempty"`
	Description *string   `json:"description,omitempty"`
	Details     *[]string `json:"details,omitempty"`
	Note        *string   `json:"note,omitempty"`
	NoteBg      *string   `json:"noteBg,omitempty"`
	NoteColor   *string   `json:"noteColor,omitempty"`
	Badge       *string   `json:"badge,omitempty"`
	BadgeBg     *string   `json:"badgeBg,omitempty"`
	Animation   *string   `json:"animation,omitempty"`
}

// Apply shallow-merges p onto r and returns the result.
func (p Patch) Apply(r Record) Record {
	r = r.Clone()
	setString(&r.Title, p.Title)
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	setString(&r.Date, p.Date)
	setString(&r.DateSort, p.DateSort)
	setString(&r.Icon, p.Icon)
	setString(&r.IconBg, p.IconBg)
	setString(&r.Description, p.Description)
	if p.Details != nil {
		r.Details = append([]string(nil), (*p.Details)...)
	}
	setString(&r.Note, p.Note)
	setString(&r.NoteBg, p.NoteBg)
	setString(&r.NoteColor, p.NoteColor)
	setString(&r.Badge, p.Badge)
	setString(&r.BadgeBg, p.BadgeBg)
	setString(&r.Animation, p.Animation)
	return r
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == (Patch{})
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
