package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		start  int
		dir    Direction
	}{
		{"too small", []string{"lab:red"}, 0, Clockwise},
		{"no laboratory", []string{"gly", "ser"}, 0, Clockwise},
		{"two laboratories", []string{"lab:red", "gly", "lab:blue"}, 0, Clockwise},
		{"start not on laboratory", []string{"lab:red", "gly"}, 1, Clockwise},
		{"unpaired membrane", []string{"lab:red", "mem:a", "gly"}, 0, Clockwise},
		{"membrane used three times", []string{"lab:red", "mem:a", "mem:a", "mem:a", "gly"}, 0, Clockwise},
		{"no terminal card", []string{"lab:red", "rxn:boc", "rxn:boc", "rxn:bn"}, 0, Clockwise},
		{"bad direction", []string{"lab:red", "gly"}, 0, Direction("up")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := ParseLayout(tt.layout)
			require.NoError(t, err)

			_, err = NewBoard(cards, tt.start, tt.dir, DefaultForm)
			assert.ErrorIs(t, err, ErrStructuralBoard)
		})
	}
}

func TestNewBoard_InvalidCardAndInitial(t *testing.T) {
	cards := []Card{NewLaboratory("red"), {Kind: Molecule, Species: "alanine", Protection: Neutral}}
	_, err := NewBoard(cards, 0, Clockwise, DefaultForm)
	assert.ErrorIs(t, err, ErrStructuralBoard)

	cards = []Card{NewLaboratory("red"), NewMolecule(Glycine, Neutral)}
	_, err = NewBoard(cards, 0, Clockwise, MoleculeForm{Species: Glycine})
	assert.ErrorIs(t, err, ErrStructuralBoard)
}

func TestNewBoard_ReactionsOnlyCanTerminate(t *testing.T) {
	cards, err := ParseLayout([]string{"lab:red", "rxn:enzyme", "rxn:enzyme", "rxn:enzyme", "rxn:enzyme"})
	require.NoError(t, err)

	board, err := NewBoard(cards, 0, Clockwise, DefaultForm)
	require.NoError(t, err)

	solution, err := Solve(board)
	require.NoError(t, err)
	assert.Equal(t, Destroyed, solution.Outcome)
	assert.Equal(t, 4, solution.AnswerIndex)
}

func TestBoard_NextWraps(t *testing.T) {
	board := mustBoard(t, Clockwise, DefaultForm, "lab:red", "gly", "ser")

	assert.Equal(t, 1, board.Next(0, Clockwise))
	assert.Equal(t, 0, board.Next(2, Clockwise))
	assert.Equal(t, 2, board.Next(0, CounterClockwise))
	assert.Equal(t, 1, board.Next(2, CounterClockwise))

	assert.Equal(t, NewMolecule(Serine, Neutral), board.CardAt(-1))
	assert.Equal(t, NewLaboratory("red"), board.CardAt(3))
}

func TestBoard_PairedMembraneIsSymmetric(t *testing.T) {
	board := mustBoard(t, Clockwise, DefaultForm, "lab:red", "mem:a", "mem:b", "gly", "mem:b", "ser", "mem:a")

	for i, card := range board.Cards() {
		if card.Kind != Membrane {
			_, err := board.PairedMembrane(i)
			assert.ErrorIs(t, err, ErrStructuralBoard)
			continue
		}
		pair, err := board.PairedMembrane(i)
		require.NoError(t, err)
		assert.NotEqual(t, i, pair)
		back, err := board.PairedMembrane(pair)
		require.NoError(t, err)
		assert.Equal(t, i, back)
	}

	pair, err := board.PairedMembrane(1)
	require.NoError(t, err)
	assert.Equal(t, 6, pair)

	_, err = board.PairedMembrane(42)
	assert.ErrorIs(t, err, ErrStructuralBoard)
}

func TestBoard_Accessors(t *testing.T) {
	initial := MoleculeForm{Species: Serine, Protection: BnProtected}
	cards, err := ParseLayout([]string{"gly", "lab:green", "rxn:bn", "ser"})
	require.NoError(t, err)

	board, err := NewBoard(cards, 1, CounterClockwise, initial)
	require.NoError(t, err)

	assert.Equal(t, 4, board.Len())
	assert.Equal(t, 1, board.StartIndex())
	assert.Equal(t, CounterClockwise, board.Direction())
	assert.Equal(t, initial, board.Initial())
	assert.Equal(t, "green", board.LabColor())
	assert.Equal(t, 2, board.Count(Molecule))
	assert.Equal(t, []string{"gly", "lab:green", "rxn:bn", "ser"}, board.Layout())

	// Cards returns a copy
	copied := board.Cards()
	copied[0] = NewMembrane("z")
	assert.Equal(t, NewMolecule(Glycine, Neutral), board.CardAt(0))
}

func TestBoard_MarshalJSON(t *testing.T) {
	board := mustBoard(t, Clockwise, DefaultForm, "lab:red", "rxn:boc", "gly+boc")

	data, err := json.Marshal(board)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "clockwise", decoded["direction"])
	assert.Equal(t, float64(0), decoded["start_index"])
	assert.Equal(t, []interface{}{"lab:red", "rxn:boc", "gly+boc"}, decoded["layout"])
	assert.Len(t, decoded["cards"], 3)
}
