// Package montecarlo implements Monte Carlo Tree Search (the UCT1
// variant), grounded directly on original_source's
// ai/src/monte_carlo/monte_carlo_search.rs — this tree has no prior AI
// code; this is a from-scratch port of that Rust crate.
//
// The original builds its search tree on petgraph; nothing in this
// module's pack pulls in a graph library, and the tree this algorithm
// grows is append-only and single-parented (every node is reached by
// exactly one action from exactly one parent), so it is represented
// here as a flat slice of nodes plus a parent index per node instead —
// functionally the same shape petgraph gave the original, without an
// unneeded dependency (see DESIGN.md).
package montecarlo

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/forgecore/cardsim/internal/ai/core"
	"github.com/forgecore/cardsim/internal/randsource"
)

// SelectionMode distinguishes exploring the tree (which balances
// exploitation against the UCT1 exploration bonus) from picking the
// final move to actually play (pure exploitation, Cp=0).
type SelectionMode int

const (
	SelectionModeExploration SelectionMode = iota
	SelectionModeBest
)

// ChildScoreAlgorithm scores one child edge during best-child
// selection, given the parent's visit count, the child's visit count,
// the child's accumulated reward, and which selection mode is active.
type ChildScoreAlgorithm interface {
	Score(parentVisits, childVisits, totalReward float64, mode SelectionMode) float64
}

// UCT1 is the upper-confidence-bound scoring rule from Kocsis &
// Szepesvári; ExplorationConstant defaults to 1/√2 (the value they
// recommend) when zero.
type UCT1 struct {
	ExplorationConstant float64
}

func (u UCT1) Score(parentVisits, childVisits, totalReward float64, mode SelectionMode) float64 {
	exploitation := totalReward / childVisits
	if mode == SelectionModeBest {
		return exploitation
	}
	c := u.ExplorationConstant
	if c == 0 {
		c = 1 / math.Sqrt2
	}
	return exploitation + c*math.Sqrt(2*math.Log(parentVisits)/childVisits)
}

type searchNode[P comparable] struct {
	player      P
	totalReward float64
	visitCount  int
	parent      int // -1 for the root
}

type searchEdge[A comparable] struct {
	action A
	target int
}

type graph[A comparable, P comparable] struct {
	nodes    []*searchNode[P]
	children [][]searchEdge[A]
}

func newGraph[A comparable, P comparable]() *graph[A, P] {
	return &graph[A, P]{}
}

func (g *graph[A, P]) addNode(player P, parent int) int {
	idx := len(g.nodes)
	g.nodes = append(g.nodes, &searchNode[P]{player: player, parent: parent})
	g.children = append(g.children, nil)
	return idx
}

func (g *graph[A, P]) addEdge(parent int, action A, target int) {
	g.children[parent] = append(g.children[parent], searchEdge[A]{action: action, target: target})
}

// RandomPlayoutEvaluator implements core.StateEvaluator by playing
// uniformly-random legal actions from node until the game ends, then
// scoring the terminal position with Evaluator. This is MCTS's default
// policy (Browne et al., §2.2).
//
// Unlike the original, which reseeds its playout RNG to the same fixed
// constant on every single evaluate call (so every simulated playout in
// a search takes an identical random path), Rand here is shared across
// calls and advances — an intentional correctness deviation, since
// reusing one playout for every iteration would make tree search no
// better than a single random rollout. See DESIGN.md.
type RandomPlayoutEvaluator[N core.GameStateNode[N, A, P], A any, P comparable] struct {
	Evaluator core.StateEvaluator[N, P]
	Rand      *randsource.Source
}

func (e RandomPlayoutEvaluator[N, A, P]) Evaluate(node N, player P) int {
	game := node.MakeCopy()
	for {
		st := game.Status()
		if st.Completed {
			return e.Evaluator.Evaluate(game, player)
		}
		actions := game.LegalActions(st.CurrentTurn)
		if len(actions) == 0 {
			return e.Evaluator.Evaluate(game, player)
		}
		action := actions[e.Rand.Intn(len(actions))]
		game.ExecuteAction(st.CurrentTurn, action)
	}
}

// Algorithm runs UCT1 Monte Carlo Tree Search until ctx's deadline (or
// MaxIterations, whichever comes first).
type Algorithm[N core.GameStateNode[N, A, P], A comparable, P comparable] struct {
	ChildScoreAlgorithm ChildScoreAlgorithm
	MaxIterations       int // 0 means unbounded (deadline-only)
	Logger              *zap.Logger
}

func (alg *Algorithm[N, A, P]) scorer() ChildScoreAlgorithm {
	if alg.ChildScoreAlgorithm != nil {
		return alg.ChildScoreAlgorithm
	}
	return UCT1{}
}

// PickAction implements core.SelectionAlgorithm.
func (alg *Algorithm[N, A, P]) PickAction(ctx context.Context, node N, evaluator core.StateEvaluator[N, P], player P) A {
	st := node.Status()
	if !st.InProgress {
		panic("montecarlo: PickAction called on a completed game")
	}

	g := newGraph[A, P]()
	root := g.addNode(player, -1)
	g.nodes[root].visitCount = 1

	deadline, hasDeadline := ctx.Deadline()
	iterations := 0
	for {
		if hasDeadline && time.Now().After(deadline) {
			break
		}
		if alg.MaxIterations > 0 && iterations >= alg.MaxIterations {
			break
		}
		gameCopy := node.MakeCopy()
		leaf := alg.treePolicy(gameCopy, g, root)
		reward := float64(evaluator.Evaluate(gameCopy, player))
		alg.backup(g, player, leaf, reward)
		iterations++
	}

	action, _, ok := alg.bestChild(g, root, node.LegalActions(player), SelectionModeBest)
	if !ok {
		panic("montecarlo: no children explored before the deadline")
	}
	if alg.Logger != nil {
		alg.Logger.Debug("montecarlo search completed", zap.Int("iterations", iterations))
	}
	return action
}

func (alg *Algorithm[N, A, P]) treePolicy(game N, g *graph[A, P], nodeIdx int) int {
	for {
		st := game.Status()
		if st.Completed {
			return nodeIdx
		}
		currentTurn := st.CurrentTurn
		actions := game.LegalActions(currentTurn)
		explored := make(map[A]bool, len(g.children[nodeIdx]))
		for _, e := range g.children[nodeIdx] {
			explored[e.action] = true
		}

		var untried A
		foundUntried := false
		for _, a := range actions {
			if !explored[a] {
				untried = a
				foundUntried = true
				break
			}
		}
		if foundUntried {
			return alg.expand(game, g, currentTurn, nodeIdx, untried)
		}

		action, target, ok := alg.bestChild(g, nodeIdx, actions, SelectionModeExploration)
		if !ok {
			return nodeIdx
		}
		game.ExecuteAction(currentTurn, action)
		nodeIdx = target
	}
}

func (alg *Algorithm[N, A, P]) expand(game N, g *graph[A, P], player P, parent int, action A) int {
	target := g.addNode(player, parent)
	g.addEdge(parent, action, target)
	game.ExecuteAction(player, action)
	return target
}

func (alg *Algorithm[N, A, P]) bestChild(g *graph[A, P], nodeIdx int, legal []A, mode SelectionMode) (action A, target int, ok bool) {
	legalSet := make(map[A]bool, len(legal))
	for _, a := range legal {
		legalSet[a] = true
	}
	parentVisits := float64(g.nodes[nodeIdx].visitCount)

	bestScore := math.Inf(-1)
	found := false
	for _, e := range g.children[nodeIdx] {
		if !legalSet[e.action] {
			continue
		}
		child := g.nodes[e.target]
		if child.visitCount == 0 {
			continue
		}
		score := alg.scorer().Score(parentVisits, float64(child.visitCount), child.totalReward, mode)
		if !found || score > bestScore {
			bestScore, action, target, found = score, e.action, e.target, true
		}
	}
	return action, target, found
}

func (alg *Algorithm[N, A, P]) backup(g *graph[A, P], maximizingPlayer P, nodeIdx int, reward float64) {
	for nodeIdx != -1 {
		n := g.nodes[nodeIdx]
		n.visitCount++
		if n.player == maximizingPlayer {
			n.totalReward += reward
		} else {
			n.totalReward -= reward
		}
		nodeIdx = n.parent
	}
}
