package domain

import "regexp"

// Todo serial chega do leitor com uma letra de origem na frente: S ou M
// (maiúscula ou minúscula). A letra é removida antes de qualquer lookup ou
// armazenamento: "S1234" e "s1234" viram "1234".
var serialPattern = regexp.MustCompile(`^[SsMm].`)

// partPrefix é o prefixo opcional P/p dos números de parte escaneados.
var partPrefix = regexp.MustCompile(`^[Pp]`)

// NormalizeSerial valida o formato cru do serial e retorna o serial sem o
// prefixo. O segundo retorno é false quando o formato é inválido.
func NormalizeSerial(raw string) (string, bool) {
	if !serialPattern.MatchString(raw) {
		return "", false
	}
	return raw[1:], true
}

// StripSerialPrefix remove o prefixo S/M quando presente, sem rejeitar seriais
// já limpos. Usado nas consultas (check-serial), onde o chamador pode enviar o
// serial em qualquer uma das formas.
func StripSerialPrefix(raw string) string {
	if serialPattern.MatchString(raw) {
		return raw[1:]
	}
	return raw
}

// NormalizePartNumber remove o prefixo P/p de um número de parte escaneado.
func NormalizePartNumber(raw string) string {
	return partPrefix.ReplaceAllString(raw, "")
}
