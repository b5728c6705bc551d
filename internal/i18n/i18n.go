package i18n

import "strings"

// messages maps language -> code -> text. French is the canonical catalog;
// English covers the same codes for API consumers that ask for it.
var messages = map[string]map[string]string{
	"fr": {
		"required":               "Requis",
		"invalid_credentials":    "Nom d'utilisateur ou mot de passe incorrect",
		"unauthorized":           "Authentification requise",
		"not_found":              "Élément introuvable",
		"product_not_found":      "Produit introuvable",
		"category_not_found":     "Catégorie introuvable",
		"vendeur_not_found":      "Vendeur introuvable",
		"already_exists":         "Cet élément existe déjà",
		"category_has_products":  "Impossible de supprimer: des produits utilisent cette catégorie",
		"product_has_movements":  "Impossible de supprimer: ce produit a des mouvements de stock",
		"insufficient_stock":     "Stock insuffisant",
		"invalid_movement_kind":  "Type de mouvement invalide",
		"validation_error":       "Données invalides",
		"invalid_body":           "Corps de requête invalide",
		"login_success":          "Connexion réussie",
		"logout_success":         "Déconnexion réussie",
		"password_changed":       "Mot de passe modifié",
		"created":                "Créé avec succès",
		"updated":                "Modifié avec succès",
		"deleted":                "Supprimé avec succès",
		"export_done":            "Export terminé",
		"unsupported_format":     "Format d'export non supporté",
		"internal_error":         "Erreur interne",
	},
	"en": {
		"required":               "Required",
		"invalid_credentials":    "Invalid username or password",
		"unauthorized":           "Authentication required",
		"not_found":              "Not found",
		"product_not_found":      "Product not found",
		"category_not_found":     "Category not found",
		"vendeur_not_found":      "Seller not found",
		"already_exists":         "Already exists",
		"category_has_products":  "Cannot delete: products still use this category",
		"product_has_movements":  "Cannot delete: this product has stock movements",
		"insufficient_stock":     "Insufficient stock",
		"invalid_movement_kind":  "Invalid movement kind",
		"validation_error":       "Invalid data",
		"invalid_body":           "Invalid request body",
		"login_success":          "Login successful",
		"logout_success":         "Logout successful",
		"password_changed":       "Password changed",
		"created":                "Created",
		"updated":                "Updated",
		"deleted":                "Deleted",
		"export_done":            "Export complete",
		"unsupported_format":     "Unsupported export format",
		"internal_error":         "Internal error",
	},
}

// T translates a message code. Unknown languages fall back to French,
// unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages["fr"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks fr or en from an Accept-Language header, defaulting
// to French.
func DetectLanguage(header string) string {
	h := strings.ToLower(header)
	for _, part := range strings.Split(h, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "en" || strings.HasPrefix(tag, "en-") {
			return "en"
		}
		if tag == "fr" || strings.HasPrefix(tag, "fr-") {
			return "fr"
		}
	}
	return "fr"
}
