package searcher

import (
	"quarto/game"
)

type kind uint8

const (
	pieceSelection kind = iota // decider names a piece for the opponent
	moveSelection              // decider places the piece chosen at the parent
	terminal                   // game over, no children
)

func (k kind) String() string {
	switch k {
	case pieceSelection:
		return "piece"
	case moveSelection:
		return "move"
	case terminal:
		return "terminal"
	default:
		panic("unknown node kind")
	}
}

// side is relative to the player running the search.
type side int8

const (
	nobody side = iota
	self
	opponent
)

func (s side) other() side {
	switch s {
	case self:
		return opponent
	case opponent:
		return self
	default:
		panic("nobody has no opponent")
	}
}

// action labels the edge into a node: a piece id below a piece selection
// node, a cell below a move selection node.
type action struct {
	piece int
	cell  game.Cell
}

func pieceAction(id int) action {
	return action{piece: id, cell: game.NoCell}
}

func cellAction(cell game.Cell) action {
	return action{piece: game.NoPiece, cell: cell}
}

func (a action) String() string {
	if a.piece != game.NoPiece {
		return game.PieceBinary(a.piece)
	}
	return a.cell.String()
}

const noParent = -1

// node is a closed variant over kind. Board state is not stored per node: it
// is replayed from the root board along the path, see tree.descend.
type node struct {
	kind     kind
	parent   int
	action   action
	piece    int  // piece to be placed at a move selection node
	toMove   side // decider at this node
	producer side // whose decision led here, rewards are from its perspective
	untried  []action
	children []int
	visits   float64
	rewards  float64
	pending  int     // virtual losses of simulations in flight
	value    float64 // outcome of a terminal node for its producer
}

// tree is an arena of nodes addressed by index; index 0 is the root.
type tree struct {
	nodes     []node
	cp        float64
	symmetric bool
}

func newPieceTree(board *game.Board, cp float64, symmetric bool) *tree {
	t := &tree{cp: cp, symmetric: symmetric}
	t.nodes = append(t.nodes, node{
		kind:     pieceSelection,
		parent:   noParent,
		action:   pieceAction(game.NoPiece),
		piece:    game.NoPiece,
		toMove:   self,
		producer: opponent,
		untried:  t.pieceActions(board),
	})
	return t
}

func newMoveTree(board *game.Board, piece int, cp float64, symmetric bool) *tree {
	t := &tree{cp: cp, symmetric: symmetric}
	t.nodes = append(t.nodes, node{
		kind:     moveSelection,
		parent:   noParent,
		action:   pieceAction(piece),
		piece:    piece,
		toMove:   self,
		producer: opponent,
		untried:  t.cellActions(board),
	})
	return t
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// pieceActions lists the pieces a decider may hand over. With symmetry on, an
// empty board offers a single piece: inverting characteristics maps any
// piece onto any other without changing which lines win.
func (t *tree) pieceActions(board *game.Board) []action {
	ids := board.UnplacedPieces()
	if t.symmetric && board.IsEmpty() && len(ids) > 0 {
		ids = ids[:1]
	}
	actions := make([]action, len(ids))
	for i, id := range ids {
		actions[i] = pieceAction(id)
	}
	return actions
}

func (t *tree) cellActions(board *game.Board) []action {
	var cells []game.Cell
	if t.symmetric {
		cells = board.CanonicalEmptyCells()
	} else {
		cells = board.EmptyCells()
	}
	actions := make([]action, len(cells))
	for i, cell := range cells {
		actions[i] = cellAction(cell)
	}
	return actions
}

// descend selects from the root until it reaches a terminal node or a node
// with untried actions, expands one action there, and returns the new leaf.
// board starts as a copy of the root board and ends as the leaf's state.
// Every node on the path receives a virtual loss until backup.
func (t *tree) descend(board *game.Board) int {
	i := 0
	t.applyLoss(i)
	for {
		n := &t.nodes[i]
		if n.kind == terminal {
			return i
		}
		if len(n.untried) > 0 {
			child := t.expand(i, board)
			t.applyLoss(child)
			return child
		}
		if len(n.children) == 0 {
			// Root of a finished game
			return i
		}
		i = t.bestChild(i, t.cp)
		t.play(board, i)
		t.applyLoss(i)
	}
}

// play applies the edge into node i to board.
func (t *tree) play(board *game.Board, i int) {
	n := &t.nodes[i]
	parent := &t.nodes[n.parent]
	if parent.kind == moveSelection {
		if !board.Place(n.action.cell, parent.piece) {
			panic("replayed move is illegal: " + n.action.String())
		}
	}
}

// expand materializes the first untried action of node i.
func (t *tree) expand(i int, board *game.Board) int {
	parent := &t.nodes[i]
	a := parent.untried[0]
	parent.untried = parent.untried[1:]

	child := node{parent: i, action: a, producer: parent.toMove}
	switch parent.kind {
	case pieceSelection:
		child.kind = moveSelection
		child.piece = a.piece
		child.toMove = parent.toMove.other()
		child.untried = t.cellActions(board)
	case moveSelection:
		if !board.Place(a.cell, parent.piece) {
			panic("expanded move is illegal: " + a.String())
		}
		child.piece = game.NoPiece
		switch {
		case board.WinsAt(a.cell):
			child.kind = terminal
			child.value = Win
		case board.IsFull():
			child.kind = terminal
			child.value = Draw
		default:
			// The player who placed names the next piece
			child.kind = pieceSelection
			child.toMove = parent.toMove
			child.untried = t.pieceActions(board)
		}
	default:
		panic("terminal node cannot have children")
	}

	index := len(t.nodes)
	t.nodes = append(t.nodes, child)
	t.nodes[i].children = append(t.nodes[i].children, index)
	return index
}

// bestChild returns the child of i maximizing UCT, first one on ties.
func (t *tree) bestChild(i int, cp float64) int {
	n := &t.nodes[i]
	if len(n.children) == 0 {
		panic("node has no children")
	}
	policy := newUCT(cp, n.completedVisits())
	best := n.children[0]
	bestScore := policy.evaluate(t.nodes[best].rewards, t.nodes[best].visits)
	for _, c := range n.children[1:] {
		if score := policy.evaluate(t.nodes[c].rewards, t.nodes[c].visits); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// mostVisited returns the root child with the highest visit count, first
// created on ties, or -1 if the root was never expanded.
func (t *tree) mostVisited() int {
	best := -1
	bestVisits := -1.0
	for _, c := range t.root().children {
		if v := t.nodes[c].visits; v > bestVisits {
			best, bestVisits = c, v
		}
	}
	return best
}

func (t *tree) applyLoss(i int) {
	t.nodes[i].visits++
	t.nodes[i].rewards += Loss
	t.nodes[i].pending++
}

// backup reverses the virtual losses from leaf to root and records the
// outcome of the simulation for each node's producer.
func (t *tree) backup(leaf int, winner side) {
	for i := leaf; i != noParent; i = t.nodes[i].parent {
		n := &t.nodes[i]
		n.rewards -= Loss
		n.visits--
		n.pending--

		n.rewards += reward(winner, n.producer)
		n.visits++
	}
}

// completedVisits excludes the virtual visits of simulations in flight. It is
// at least 1 so the exploration term stays defined while every visit of a
// node is pending.
func (n *node) completedVisits() float64 {
	return max(n.visits-float64(n.pending), 1)
}

// outcome returns the side a terminal node's value credits, nobody for a draw.
func (n *node) outcome() side {
	switch {
	case n.value > 0:
		return n.producer
	case n.value < 0:
		return n.producer.other()
	default:
		return nobody
	}
}

func reward(winner side, producer side) float64 {
	switch winner {
	case nobody:
		return Draw
	case producer:
		return Win
	default:
		return Loss
	}
}
