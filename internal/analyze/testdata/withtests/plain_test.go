package withtests

type Extra struct {
	Plain
	N int
}
