package ui

import (
	"fmt"
	"time"

	"github.com/verdant-app/verdant/internal/api"
	"github.com/verdant-app/verdant/internal/forum"
	"github.com/verdant-app/verdant/internal/viewmodel"
)

// formatDate shortens backend timestamps; unknown layouts pass through.
func formatDate(s string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Local().Format("2006-01-02 15:04")
		}
	}
	return s
}

// Collections prints every collection with its plants.
func (p *Printer) Collections(st viewmodel.CollectionsState) {
	names := st.Names()
	if len(names) == 0 {
		p.Hint(`You have no collections yet. Create one with "verdant collections create NAME".`)
		return
	}
	for i, name := range names {
		if i > 0 {
			p.Println("")
		}
		entries := st.Entries(name)
		p.Title(fmt.Sprintf("%s (%d)", name, len(entries)))
		if len(entries) == 0 {
			p.Hint("  empty")
			continue
		}
		for _, e := range entries {
			line := fmt.Sprintf("  %s  %s", p.label("#"+e.ID.String()), e.CommonName)
			if sci := e.Details.ScientificName; viewmodel.IsDataPresent(sci) {
				line += "  " + p.styles.hint.Render(truncate(sci, 40))
			}
			if t := e.Details.PlantType; t != "" {
				line += "  " + p.styles.hint.Render("["+t+"]")
			}
			p.Println(line)
		}
	}
}

// CollectionNames prints one name per line.
func (p *Printer) CollectionNames(names []string) {
	if len(names) == 0 {
		p.Hint("No collections.")
		return
	}
	for _, n := range names {
		p.Println(n)
	}
}

// Plant prints a care guide.
func (p *Printer) Plant(st viewmodel.PlantDetailsState) {
	if st.Plant == nil {
		return
	}
	pl := st.Plant
	p.Title(st.PageTitle())
	if viewmodel.IsDataPresent(pl.ScientificName) {
		p.Hint(pl.ScientificName)
	}
	if st.ActualType != "" && st.ActualType != st.RequestedType {
		p.Hint(fmt.Sprintf("Not found as %s; showing the %s result.", st.RequestedType, st.ActualType))
	}
	p.Printf("%s %s", p.label("Image:"), st.DisplayImageURL())
	if viewmodel.IsDataPresent(pl.Description) {
		p.Println("")
		p.Println(indent(pl.Description, "", p.width))
	}

	care := []struct{ name, value string }{
		{"Light", pl.Care.Light},
		{"Watering", pl.Care.Watering},
		{"Fertilization", pl.Care.Fertilization},
		{"Ideal temperature", pl.Care.IdealTemp},
	}
	printed := false
	for _, c := range care {
		if !viewmodel.IsDataPresent(c.value) {
			continue
		}
		if !printed {
			p.Println("")
			p.Title("Care")
			printed = true
		}
		p.Printf("%s\n%s", p.label(c.name), indent(c.value, "  ", p.width))
	}
	if !printed {
		p.Hint("No care instructions available.")
	}
}

func (p *Printer) pendingMark(s forum.SyncState) string {
	if s == forum.Pending {
		return " " + p.styles.pending.Render("(sending)")
	}
	return ""
}

// Posts prints the forum post list.
func (p *Printer) Posts(posts []forum.Post) {
	if len(posts) == 0 {
		p.Hint(`No posts yet. Start one with "verdant forum post".`)
		return
	}
	for i, post := range posts {
		if i > 0 {
			p.Println("")
		}
		p.Println(p.styles.title.Render(post.Title) + p.pendingMark(post.Sync))
		meta := fmt.Sprintf("#%s · %s · %s", post.ID, authorOf(post.AuthorEmail), formatDate(post.CreatedAt))
		p.Println(p.styles.author.Render(meta))
		if post.Content != "" {
			p.Println(truncate(post.Content, p.width-2))
		}
	}
}

func authorOf(email string) string {
	if email == "" {
		return "anonymous"
	}
	return email
}

// Thread prints a post and its comments. Replies to replies are counted
// but not shown.
func (p *Printer) Thread(st viewmodel.PostThreadState) {
	if st.Post != nil {
		p.Title(st.Post.Title)
		p.Println(p.styles.author.Render(fmt.Sprintf("%s · %s", authorOf(st.Post.AuthorEmail), formatDate(st.Post.CreatedAt))))
		if st.Post.Content != "" {
			p.Println(indent(st.Post.Content, "", p.width))
		}
		p.Separator()
	} else {
		p.Hint(fmt.Sprintf("Post %s not found.", st.PostID))
	}

	th := st.Thread()
	if th.Empty() {
		p.Hint("No comments yet.")
		return
	}
	for _, c := range th.TopLevel() {
		p.comment(c, "")
		for _, r := range th.Replies(c.ID) {
			p.comment(r, "    ")
		}
	}
	if n := len(th.Hidden()); n > 0 {
		p.Hint(fmt.Sprintf("%d nested %s not shown.", n, plural(n, "reply", "replies")))
	}
}

func (p *Printer) comment(c forum.Comment, prefix string) {
	head := fmt.Sprintf("%s%s %s", prefix, p.label("#"+c.ID.String()), p.styles.author.Render(authorOf(c.AuthorEmail)+" · "+formatDate(c.CreatedAt)))
	p.Println(head + p.pendingMark(c.Sync))
	p.Println(indent(c.Content, prefix+"  ", p.width))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Plan prints an AI garden plan.
func (p *Printer) Plan(markdown string) {
	p.Println(p.renderMarkdown(markdown))
}

// Profile prints account info.
func (p *Printer) Profile(prof *api.Profile) {
	if prof == nil {
		return
	}
	p.Printf("%s %s", p.label("Email:  "), prof.Email)
	p.Printf("%s %s", p.label("User ID:"), prof.ID)
	if prof.CreatedAt != "" {
		p.Printf("%s %s", p.label("Joined: "), formatDate(prof.CreatedAt))
	}
}
