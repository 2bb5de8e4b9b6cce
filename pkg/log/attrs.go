package log

import "log/slog"

func CorrelationID[T ~string](id T) slog.Attr {
	return slog.String("correlation_id", string(id))
}

func Workflow(name string) slog.Attr {
	return slog.String("workflow", name)
}

func Step(name string) slog.Attr {
	return slog.String("step", name)
}

func Severity[T ~string](sev T) slog.Attr {
	return slog.String("severity", string(sev))
}

func Collaborator(name string) slog.Attr {
	return slog.String("collaborator", name)
}

func Repo(repo string) slog.Attr {
	return slog.String("repo", repo)
}

func PRNumber(n int) slog.Attr {
	return slog.Int("pr_number", n)
}

func Project(name string) slog.Attr {
	return slog.String("project", name)
}

func Incident(title string) slog.Attr {
	return slog.String("incident", title)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
