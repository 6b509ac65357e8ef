package withtests_test

type Outside struct {
	Count int
}
