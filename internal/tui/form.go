package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// errInvalidAmount は数値として読めない金額を入力した場合のエラー。
var errInvalidAmount = errors.New("金額の形式が不正")

// msgInvalidAmount はerrInvalidAmountの代わりにフォームへ表示する文言。
const msgInvalidAmount = "Informe um valor numerico valido."

// formField はフォームの1項目の定義。
type formField struct {
	label  string
	value  string
	secret bool
}

// form は複数のテキスト入力を縦に並べた入力フォーム。
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	// err は送信前の入力チェックで見つかった問題。
	err string
	// submit は入力値から実行するコマンドを組み立てる。
	submit func(f *form) (tea.Cmd, error)
}

// newForm は最初の項目にフォーカスしたフォームを生成する。
func newForm(title string, submit func(f *form) (tea.Cmd, error), fields ...formField) *form {
	f := &form{title: title, submit: submit}
	for _, field := range fields {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 200
		in.Cursor.SetMode(cursor.CursorStatic)
		in.SetValue(field.value)
		if field.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.labels = append(f.labels, field.label)
		f.inputs = append(f.inputs, in)
	}
	f.setFocus(0)
	return f
}

// value は項目の入力値を前後の空白を除いて返す。
func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// rawValue は項目の入力値をそのまま返す。パスワードに使う。
func (f *form) rawValue(i int) string {
	return f.inputs[i].Value()
}

// amount は項目の入力値を金額として読む。小数点にはカンマも使える。
func (f *form) amount(i int) (float64, error) {
	return parseAmount(f.value(i))
}

func (f *form) setFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) next() { f.setFocus(f.focus + 1) }

func (f *form) prev() { f.setFocus(f.focus - 1) }

// handleKey はキー入力を処理する。enterで送信し、送信できた場合はコマンドを返す。
func (f *form) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.next()
		return nil
	case "shift+tab", "up":
		f.prev()
		return nil
	case "enter":
		cmd, err := f.submit(f)
		if err != nil {
			f.err = formMessage(err)
			return nil
		}
		f.err = ""
		return cmd
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view() string {
	rows := []string{titleStyle.Render(f.title), ""}
	for i, in := range f.inputs {
		label := mutedStyle.Render(f.labels[i])
		if i == f.focus {
			label = selectedStyle.Render(f.labels[i])
		}
		rows = append(rows, label, in.View())
	}
	if f.err != "" {
		rows = append(rows, "", errorStyle.Render(f.err))
	}
	rows = append(rows, "", mutedStyle.Render("enter enviar • tab proximo campo • esc cancelar"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// parseAmount は "12,50" や "12.50" 形式の金額を読む。
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, errInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errInvalidAmount
	}
	return v, nil
}

// formMessage は入力チェックのエラーを表示用の文言にする。
func formMessage(err error) string {
	if errors.Is(err, errInvalidAmount) {
		return msgInvalidAmount
	}
	return err.Error()
}
