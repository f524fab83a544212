package gitlab

import (
	"strconv"

	"github.com/salmonumbrella/gitlab-cli/internal/render"
)

// Table presentation of API values. The first column of every schema is the
// identifier; it links to the resource's web_url and is never wrapped.

// Schema implements render.Recorder.
func (Project) Schema() render.Schema {
	return render.Schema{
		{Name: "ID", Linked: true},
		{Name: "Name", Wrap: true},
		{Name: "Path", Wrap: true},
	}
}

// Record implements render.Recorder.
func (p Project) Record() render.Record {
	return render.Record{
		render.Link(strconv.Itoa(p.ID), p.WebURL),
		render.Plain(p.Name),
		render.Plain(p.PathWithNamespace),
	}
}

// Schema implements render.Recorder.
func (Branch) Schema() render.Schema {
	return render.Schema{
		{Name: "Name", Linked: true},
		{Name: "Merged", Wrap: true},
		{Name: "Protected", Wrap: true},
		{Name: "Developers Can Push", Wrap: true},
		{Name: "Developers Can Merge", Wrap: true},
	}
}

// Record implements render.Recorder.
func (b Branch) Record() render.Record {
	return render.Record{
		render.Link(b.Name, b.WebURL),
		render.Plainf("%t", b.Merged),
		render.Plainf("%t", b.Protected),
		render.Plainf("%t", b.DevelopersCanPush),
		render.Plainf("%t", b.DevelopersCanMerge),
	}
}

// Schema implements render.Recorder.
func (MergeRequest) Schema() render.Schema {
	return render.Schema{
		{Name: "IID", Linked: true},
		{Name: "Title", Wrap: true},
		{Name: "Author", Wrap: true},
		{Name: "Source", Wrap: true},
		{Name: "Target", Wrap: true},
		{Name: "State", Wrap: true},
	}
}

// Record implements render.Recorder.
func (mr MergeRequest) Record() render.Record {
	author := ""
	if mr.Author != nil {
		author = mr.Author.Username
	}
	return render.Record{
		render.Link(strconv.Itoa(mr.IID), mr.WebURL),
		render.Plain(mr.Title),
		render.Plain(author),
		render.Plain(mr.SourceBranch),
		render.Plain(mr.TargetBranch),
		render.Plain(mr.State),
	}
}
