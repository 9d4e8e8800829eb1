package shared

// HPResource tracks hit points and temporary HP
type HPResource struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Temporary int `json:"temporary"`
}

// Damage applies damage, using temp HP first. Returns the amount actually
// absorbed, which never exceeds Temporary+Current before the hit.
func (hp *HPResource) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}

	absorbed := 0

	// Temp HP soaks first
	if hp.Temporary > 0 {
		if hp.Temporary >= amount {
			hp.Temporary -= amount
			return amount
		}
		absorbed = hp.Temporary
		amount -= hp.Temporary
		hp.Temporary = 0
	}

	if amount > hp.Current {
		amount = hp.Current
	}
	hp.Current -= amount

	return absorbed + amount
}

// Heal restores hit points up to max and returns the amount actually gained
func (hp *HPResource) Heal(amount int) int {
	if amount <= 0 || hp.Current >= hp.Max {
		return 0
	}

	oldHP := hp.Current
	hp.Current += amount
	if hp.Current > hp.Max {
		hp.Current = hp.Max
	}

	return hp.Current - oldHP
}

// AddTemporaryHP adds temporary hit points (doesn't stack, higher value wins)
func (hp *HPResource) AddTemporaryHP(amount int) {
	if amount > hp.Temporary {
		hp.Temporary = amount
	}
}

// IsBloodied reports whether current HP is at or below half of max
func (hp *HPResource) IsBloodied() bool {
	return hp.Max > 0 && hp.Current*2 <= hp.Max
}
