package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
)

const (
	profileFirstName = iota
	profileLastName
	profilePhone
	profileBirthDate
)

type profileMsg struct {
	user  model.User
	saved bool
	err   error
}

type profilePage struct {
	env env

	loading bool
	saving  bool
	loaded  bool
	user    model.User
	form    form
	err     string
	notice  string
}

func newProfilePage(e env, _ nav.Profile) *profilePage {
	p := &profilePage{env: e}
	if user, ok := e.client.CurrentUser(); ok {
		p.user = user
	}
	p.form = profileForm(p.user)
	return p
}

func profileForm(u model.User) form {
	return newForm(
		fieldSpec{label: "First name", value: u.FirstName},
		fieldSpec{label: "Last name", value: u.LastName},
		fieldSpec{label: "Phone", value: u.Phone},
		fieldSpec{label: "Date of birth", placeholder: "YYYY-MM-DD", value: u.DateOfBirth, limit: 10},
	)
}

func (p *profilePage) Init() tea.Cmd {
	if !p.env.client.IsAuthenticated() {
		return replaceCmd(nav.SignIn{Then: nav.Profile{}})
	}
	p.loading = true
	client := p.env.client
	return tea.Batch(p.form.focusAt(profileFirstName), p.env.run(func(ctx context.Context) tea.Msg {
		user, err := client.GetMe(ctx)
		return profileMsg{user: user, err: err}
	}))
}

func (p *profilePage) Loading() (string, bool) {
	if p.saving {
		return "Saving profile", true
	}
	return "Loading profile", p.loading
}

func (p *profilePage) Hints() string {
	return "enter next/save • ctrl+o sign out • ctrl+b my bookings"
}

func (p *profilePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		p.loading = false
		p.saving = false
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return p, replaceCmd(nav.SignIn{Then: nav.Profile{}})
			}
			p.err = service.Detail(msg.err, "Failed to load profile")
			return p, nil
		}
		p.loaded = true
		p.user = msg.user
		p.form = profileForm(msg.user)
		if msg.saved {
			p.notice = "Profile updated."
		}
		return p, p.form.focusAt(profileFirstName)

	case tea.KeyMsg:
		if p.loading || p.saving {
			return p, nil
		}
		switch msg.String() {
		case "ctrl+o":
			if err := p.env.client.Logout(); err != nil {
				p.err = service.Detail(err, "Failed to sign out")
				return p, nil
			}
			return p, resetCmd(nav.Home{})
		case "ctrl+b":
			return p, navigateCmd(nav.MyBookings{})
		}
	}

	var cmd tea.Cmd
	var submitted bool
	p.form, cmd, submitted = p.form.update(msg)
	if submitted {
		return p, p.save()
	}
	return p, cmd
}

// patch includes only the fields that changed.
func (p *profilePage) patch() model.UserUpdate {
	var u model.UserUpdate
	if v := p.form.value(profileFirstName); v != p.user.FirstName {
		u.FirstName = v
	}
	if v := p.form.value(profileLastName); v != p.user.LastName {
		u.LastName = v
	}
	if v := p.form.value(profilePhone); v != p.user.Phone {
		u.Phone = v
	}
	if v := p.form.value(profileBirthDate); v != p.user.DateOfBirth {
		u.DateOfBirth = v
	}
	return u
}

func (p *profilePage) save() tea.Cmd {
	patch := p.patch()
	if patch.IsEmpty() {
		p.notice = "Nothing to update."
		return nil
	}
	p.err = ""
	p.notice = ""
	p.saving = true
	client := p.env.client
	return p.env.run(func(ctx context.Context) tea.Msg {
		user, err := client.UpdateProfile(ctx, patch)
		return profileMsg{user: user, saved: err == nil, err: err}
	})
}

func (p *profilePage) View() string {
	name := p.user.FullName()
	if name == "" {
		name = "Traveller"
	}
	lines := []string{
		chipStyle.Render(initials(p.user)) + "  " + headingStyle.Render(name),
		row("Email", p.user.Email),
	}
	if !p.user.CreatedAt.IsZero() {
		lines = append(lines, row("Member since", format.Date(p.user.CreatedAt.Time)))
	}
	return joinBlocks(
		panel(p.env.width, strings.Join(lines, "\n")),
		headingStyle.Render("Edit profile"),
		p.form.view(),
		errorLine(p.err),
		noticeLine(p.notice),
	)
}

func initials(u model.User) string {
	return format.Initials(u.FirstName, u.LastName)
}
