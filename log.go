package mfe

/*
Logger is the interface of the values the extractor reports its progress and
the problems it finds to. Implementations are expected to add a line break
at the end of each message.
*/
type Logger interface {
	Logf(format string, a ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(format string, a ...interface{}) {}
