// Package engine provides the core game logic for the Amino Trail card game.
//
// The engine package implements the game mechanics including:
//   - The card model (laboratory, molecule, membrane and reaction cards)
//   - Circular board navigation with membrane jumps
//   - The molecule transformation state machine
//   - Traversal from the laboratory to the answer card
//   - Board configuration parsing and validation
//
// Core Types:
//
// Board is an immutable ring of Cards with a start index (the laboratory),
// a traversal direction and the molecule form produced by the laboratory.
// MoleculeState is the value carried during a traversal, and Solution is
// what Solve returns: the answer index, the final state and the visited path.
//
// Usage:
//
//	config, err := engine.LoadBoardConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := config.Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	solution, err := engine.Solve(board)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(solution.AnswerIndex, solution.Path)
//
// Game Rules:
//
// Starting next to the laboratory and moving in the board direction, every
// reaction card transforms the travelling molecule. Boc and Bn reactions
// alternately protect and deprotect it, the enzyme switches glycine and serine.
// The fourth hit of the same reaction destroys the molecule and that reaction
// card is the answer. A membrane card teleports the molecule to its paired
// membrane. The first molecule card matching the travelling molecule is the
// answer otherwise.
package engine
