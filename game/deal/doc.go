// Package deal turns board configs into playable rounds.
//
// A deck config is dealt the way the table game is set up: the dice pick a
// laboratory colour, an arrow direction and the molecule to follow, the
// laboratory goes down first and the shuffled deck follows it around the
// ring. Rings that cannot be solved are redealt, so every Deal carries a
// board with a known answer.
//
// Deals are reproducible from the config and a seed:
//
//	d, err := deal.New(config, deal.NewSeed())
//	if err != nil {
//		return err
//	}
//	fmt.Println(d.Throw.Lab, d.Solution.AnswerIndex)
package deal
