package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
)

type authMsg struct {
	user model.User
	err  error
}

type signInPage struct {
	env     env
	payload nav.SignIn

	register   bool
	form       form
	submitting bool
	err        string
}

func newSignInPage(e env, p nav.SignIn) *signInPage {
	pg := &signInPage{env: e, payload: p, register: p.Register}
	pg.form = pg.buildForm()
	return pg
}

const (
	signInEmail = iota
	signInPassword
)

const (
	registerFirstName = iota
	registerLastName
	registerEmail
	registerPhone
	registerPassword
	registerConfirm
)

func (p *signInPage) buildForm() form {
	if p.register {
		return newForm(
			fieldSpec{label: "First name"},
			fieldSpec{label: "Last name"},
			fieldSpec{label: "Email", placeholder: "you@example.com"},
			fieldSpec{label: "Phone", placeholder: "optional"},
			fieldSpec{label: "Password", password: true},
			fieldSpec{label: "Confirm password", password: true},
		)
	}
	return newForm(
		fieldSpec{label: "Email", placeholder: "you@example.com"},
		fieldSpec{label: "Password", password: true},
	)
}

func (p *signInPage) Init() tea.Cmd {
	return p.form.focusAt(0)
}

func (p *signInPage) Loading() (string, bool) {
	if p.register {
		return "Creating your account", p.submitting
	}
	return "Signing in", p.submitting
}

func (p *signInPage) Hints() string {
	if p.register {
		return "enter next/submit • ctrl+t I already have an account"
	}
	return "enter next/submit • ctrl+t create an account"
}

func (p *signInPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case authMsg:
		p.submitting = false
		if msg.err != nil {
			fallback := "Sign in failed. Please check your credentials."
			if p.register {
				fallback = "Registration failed. Please try again."
			}
			p.err = service.Detail(msg.err, fallback)
			return p, nil
		}
		next := p.payload.Then
		if next == nil {
			next = nav.Home{}
		}
		return p, replaceCmd(next)

	case tea.KeyMsg:
		if p.submitting {
			return p, nil
		}
		if msg.String() == "ctrl+t" {
			p.register = !p.register
			p.err = ""
			p.form = p.buildForm()
			return p, p.form.focusAt(0)
		}
	}

	var cmd tea.Cmd
	var submitted bool
	p.form, cmd, submitted = p.form.update(msg)
	if submitted {
		return p, p.submit()
	}
	return p, cmd
}

func (p *signInPage) submit() tea.Cmd {
	client := p.env.client
	if p.register {
		user := model.UserRegister{
			FirstName: p.form.value(registerFirstName),
			LastName:  p.form.value(registerLastName),
			Email:     p.form.value(registerEmail),
			Phone:     p.form.value(registerPhone),
			Password:  p.form.raw(registerPassword),
		}
		if err := user.Validate(p.form.raw(registerConfirm)); err != nil {
			p.err = service.Detail(err, "Please check your details")
			return nil
		}
		p.err = ""
		p.submitting = true
		return p.env.run(func(ctx context.Context) tea.Msg {
			res, err := client.Register(ctx, user)
			return authMsg{user: res.User, err: err}
		})
	}

	creds := model.UserLogin{
		Email:    p.form.value(signInEmail),
		Password: p.form.raw(signInPassword),
	}
	if err := creds.Validate(); err != nil {
		p.err = service.Detail(err, "Email and password are required")
		return nil
	}
	p.err = ""
	p.submitting = true
	return p.env.run(func(ctx context.Context) tea.Msg {
		res, err := client.Login(ctx, creds)
		return authMsg{user: res.User, err: err}
	})
}

func (p *signInPage) View() string {
	title := "Sign in to SkyWings"
	if p.register {
		title = "Create your SkyWings account"
	}
	return joinBlocks(
		headingStyle.Render(title),
		p.form.view(),
		errorLine(p.err),
	)
}
