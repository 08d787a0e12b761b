package domain

import "fmt"

// Positions of the fixed roles in a three-generation pedigree. Father's
// siblings, mother's siblings and the proband's siblings follow the mother in
// that order and the proband is always last.
const (
	PaternalGrandfatherIndex = 0
	PaternalGrandmotherIndex = 1
	MaternalGrandfatherIndex = 2
	MaternalGrandmotherIndex = 3
	FatherIndex              = 4
	MotherIndex              = 5

	FounderCount    = 4
	FixedRoleCount  = 6
	MaxSiblingGroup = 4
	MinPedigreeSize = FixedRoleCount + 1
	MaxPedigreeSize = FixedRoleCount + 3*MaxSiblingGroup + 1
)

// Pedigree is an ordered three-generation family sharing one family id.
type Pedigree struct {
	FamilyID int           `json:"family_id"`
	Members  []*Individual `json:"members"`
}

// Len returns the number of members.
func (p *Pedigree) Len() int {
	return len(p.Members)
}

// Proband returns the index individual, always the last member.
func (p *Pedigree) Proband() *Individual {
	if len(p.Members) == 0 {
		return nil
	}
	return p.Members[len(p.Members)-1]
}

// Founders returns the four grandparents.
func (p *Pedigree) Founders() []*Individual {
	if len(p.Members) < FounderCount {
		return p.Members
	}
	return p.Members[:FounderCount]
}

// NonFounders returns every member after the four grandparents.
func (p *Pedigree) NonFounders() []*Individual {
	if len(p.Members) < FounderCount {
		return nil
	}
	return p.Members[FounderCount:]
}

// At returns the member at a template position, or nil when out of range.
func (p *Pedigree) At(index int) *Individual {
	if index < 0 || index >= len(p.Members) {
		return nil
	}
	return p.Members[index]
}

// Father returns the proband's father.
func (p *Pedigree) Father() *Individual {
	return p.At(FatherIndex)
}

// Mother returns the proband's mother.
func (p *Pedigree) Mother() *Individual {
	return p.At(MotherIndex)
}

// Find returns the member with the given id.
func (p *Pedigree) Find(id int) (*Individual, bool) {
	for _, m := range p.Members {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// ChildrenOf returns the members recording id as father or mother.
func (p *Pedigree) ChildrenOf(id int) []*Individual {
	var children []*Individual
	for _, m := range p.Members {
		if m.IsChildOf(id) {
			children = append(children, m)
		}
	}
	return children
}

// Carriers returns the members with a positive mutation result.
func (p *Pedigree) Carriers() []*Individual {
	var carriers []*Individual
	for _, m := range p.Members {
		if m.MutationStatus.IsCarrier() {
			carriers = append(carriers, m)
		}
	}
	return carriers
}

// MutatedFounders returns the founders with a positive mutation result.
func (p *Pedigree) MutatedFounders() []*Individual {
	var mutated []*Individual
	for _, f := range p.Founders() {
		if f.MutationStatus.IsCarrier() {
			mutated = append(mutated, f)
		}
	}
	return mutated
}

// Clone returns a deep copy of the pedigree.
func (p *Pedigree) Clone() *Pedigree {
	c := &Pedigree{FamilyID: p.FamilyID, Members: make([]*Individual, len(p.Members))}
	for i, m := range p.Members {
		c.Members[i] = m.Clone()
	}
	return c
}

// Renumber moves the pedigree into another id space: the family id becomes
// familyID and every individual id, including parent references, is shifted
// by offset.
func (p *Pedigree) Renumber(familyID, offset int) {
	p.FamilyID = familyID
	for _, m := range p.Members {
		m.FamilyID = familyID
		m.ID += offset
		if m.FatherID != 0 {
			m.FatherID += offset
		}
		if m.MotherID != 0 {
			m.MotherID += offset
		}
	}
}

// Validate checks the structural invariants of a built pedigree: the size
// bounds, founders without parents, non-founders whose parents are earlier
// members, a single proband in last position and valid member records.
func (p *Pedigree) Validate() error {
	n := len(p.Members)
	if n < MinPedigreeSize || n > MaxPedigreeSize {
		return NewValidationError("members", fmt.Sprintf("pedigree size must be between %d and %d", MinPedigreeSize, MaxPedigreeSize), n)
	}
	seen := make(map[int]*Individual, n)
	for idx, m := range p.Members {
		if m.FamilyID != p.FamilyID {
			return NewValidationError("family_id", "member belongs to another family", m.ID)
		}
		if _, dup := seen[m.ID]; dup {
			return NewValidationError("id", "duplicate individual id", m.ID)
		}
		if err := m.Validate(); err != nil {
			return fmt.Errorf("individual %d: %w", m.ID, err)
		}
		if idx < FounderCount {
			if !m.IsFounder() {
				return NewValidationError("parents", "founder has recorded parents", m.ID)
			}
		} else {
			father, okF := seen[m.FatherID]
			mother, okM := seen[m.MotherID]
			if !okF || !okM {
				return NewValidationError("parents", "parents must precede the individual", m.ID)
			}
			if father.Sex != Male || mother.Sex != Female {
				return NewValidationError("parents", "parent sexes do not match their roles", m.ID)
			}
		}
		if m.IsProband != (idx == n-1) {
			return NewValidationError("is_proband", "proband must be the last member", m.ID)
		}
		seen[m.ID] = m
	}
	return nil
}
