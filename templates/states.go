package templates

import (
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

// FailureNotice is the inline state shown when a panel could not load.
func FailureNotice(message string) g.Node {
	return Div(Class("card failure-notice text-error"),
		P(g.Text(message)),
		P(A(Href("/blog"), g.Text("Back to the blog"))),
	)
}

func NotFoundPage() g.Node {
	return Div(Class("not-found text-center"),
		H1(g.Text("Post not found")),
		P(Class("text-grey"), g.Text("The article you are looking for does not exist or is no longer available.")),
		P(A(Class("button primary"), Href("/blog"), g.Text("Back to the blog"))),
	)
}

func FailurePage(message string) g.Node {
	return Div(Class("failure text-center"),
		H1(g.Text("Something went wrong")),
		FailureNotice(message),
	)
}
