package auth

import "strings"

// TranslateError maps backend error text to the pt-BR messages shown to the
// user, matching on known substrings. Unrecognized errors fall back to a
// generic connection message.
func TranslateError(err error) string {
	if err == nil {
		return ""
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid login credentials"):
		return "Email não encontrado ou senha incorreta."
	case strings.Contains(msg, "email not confirmed"):
		return "Email não confirmado. Verifique sua caixa de entrada."
	case strings.Contains(msg, "security purposes"), strings.Contains(msg, "rate limit"):
		return "Muitas tentativas. Aguarde um minuto e tente novamente."
	case strings.Contains(msg, "already registered"):
		return "Email já cadastrado. Tente fazer login."
	case strings.Contains(msg, "password should be at least"):
		return "A senha deve ter pelo menos 6 caracteres."
	case strings.Contains(msg, "anonymous"):
		return "Erro de acesso anônimo."
	default:
		return "Ocorreu um erro ao conectar. Tente novamente."
	}
}
