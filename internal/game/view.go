package game

import (
	"github.com/forgecore/cardsim/internal/primitives"
)

// View is the per-player rendering of a Match, narrowed to what this
// package actually models, with hidden-zone contents filtered to what
// the requesting seat may see.
type View struct {
	GameID         string
	Turn           int
	Phase          string
	Step           string
	ActivePlayerID string
	PriorityPlayer string
	You            string
	Players        []PlayerView
	Battlefield    []PermanentView
	Stack          []StackItemView
	GameOver       bool
	WinnerID       string
}

// PlayerView summarizes one seat's public state plus, for the
// requesting seat only, their hand's contents.
type PlayerView struct {
	PlayerID     string
	Life         int
	LibraryCount int
	HandCount    int
	Hand         []CardView // populated only for the requesting seat
	Graveyard    []CardView
}

// CardView is a hidden-information-safe rendering of one card.
type CardView struct {
	ID   uint64
	Name string
}

// PermanentView renders one battlefield permanent, with power/toughness
// already folded through the effects Registry.
type PermanentView struct {
	ID           uint64
	Name         string
	ControllerID string
	Tapped       bool
	Power        int
	Toughness    int
	HasPower     bool
	HasToughness bool
	DamageMarked int
	Attacking    bool
	Blocking     bool
}

// StackItemView renders one item on the stack, spell or ability.
type StackItemView struct {
	Name       string
	Controller string
	IsAbility  bool
}

// view renders m from seat's perspective.
func (m *Match) view(seat primitives.PlayerName) *View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := &View{
		GameID:         m.id,
		Turn:           m.turns.TurnNumber(),
		Phase:          m.turns.CurrentPhase().String(),
		Step:           m.turns.CurrentStep().String(),
		ActivePlayerID: m.playerIDs[m.turns.ActivePlayer()],
		PriorityPlayer: m.playerIDs[m.turns.PriorityPlayer()],
		You:            m.playerIDs[seat],
		GameOver:       m.gameOver,
	}
	if m.winner.IsValid() {
		v.WinnerID = m.playerIDs[m.winner]
	}

	for _, p := range []primitives.PlayerName{primitives.PlayerOne, primitives.PlayerTwo} {
		pv := PlayerView{
			PlayerID:     m.playerIDs[p],
			Life:         m.life[p],
			LibraryCount: len(m.store.Library(p)),
			HandCount:    len(m.store.Hand(p)),
		}
		if p == seat {
			for _, id := range m.store.Hand(p) {
				pv.Hand = append(pv.Hand, m.cardView(id))
			}
		}
		for _, id := range m.store.Graveyard(p) {
			pv.Graveyard = append(pv.Graveyard, m.cardView(id))
		}
		v.Players = append(v.Players, pv)
	}

	for _, id := range m.store.Battlefield() {
		card, ok := m.store.Card(id)
		if !ok {
			continue
		}
		power, toughness := m.effectivePowerToughness(id)
		face := card.Printed.Face0()
		pv := PermanentView{
			ID:           uint64(card.ID),
			Name:         face.Name,
			ControllerID: m.playerIDs[card.Controller],
			Tapped:       card.Tapped,
			Power:        power,
			Toughness:    toughness,
			HasPower:     face.HasPower,
			HasToughness: face.HasToughness,
			DamageMarked: card.DamageMarked,
		}
		if m.combatState != nil {
			pid := card.PermanentId()
			pv.Attacking = m.combatState.IsAttacking(pid)
			pv.Blocking = m.combatState.IsBlocking(pid)
		}
		v.Battlefield = append(v.Battlefield, pv)
	}

	for _, item := range m.store.Stack() {
		if item.IsAbility() {
			v.Stack = append(v.Stack, StackItemView{
				Name:       "ability",
				Controller: m.playerIDs[item.Ability.Controller],
				IsAbility:  true,
			})
			continue
		}
		card, ok := m.store.Card(item.Card)
		if !ok {
			continue
		}
		v.Stack = append(v.Stack, StackItemView{
			Name:       card.Printed.Face0().Name,
			Controller: m.playerIDs[card.Controller],
		})
	}

	return v
}

func (m *Match) cardView(id primitives.CardId) CardView {
	card, ok := m.store.Card(id)
	if !ok {
		return CardView{}
	}
	return CardView{ID: uint64(card.ID), Name: card.Printed.Face0().Name}
}
