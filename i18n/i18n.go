// Package i18n holds the UI message tables and language negotiation.
package i18n

import (
	"context"
	"strings"
)

// DefaultLang is used when neither cookie nor Accept-Language selects a supported language.
const DefaultLang = "es"

var supported = map[string]bool{"es": true, "en": true}

var messages = map[string]map[string]string{
	"es": {
		"required":                    "Este campo es obligatorio.",
		"invalid_email":               "Introduzca una dirección de correo electrónico válida.",
		"invalid_choice":              "Seleccione una opción válida.",
		"invalid_decimal":             "Introduzca un número.",
		"invalid_date":                "Introduzca una fecha válida.",
		"too_long":                    "El valor es demasiado largo.",
		"must_be_non_negative":        "El valor debe ser mayor o igual a cero.",
		"max_decimal_places":          "Asegúrese de que no haya más de 2 decimales.",
		"max_digits":                  "Asegúrese de que no haya más de 15 dígitos en total.",
		"tax_id_taken":                "Ya existe un cliente con este NIT.",
		"missing_fields":              "Por favor complete todos los campos.",
		"period_order":                "La fecha de inicio no puede ser posterior a la fecha de fin.",
		"password_mismatch":           "Las dos contraseñas no coinciden.",
		"password_too_short":          "La contraseña debe tener al menos 8 caracteres.",
		"invalid_credentials":         "Correo electrónico o contraseña incorrectos.",
		"save_failed":                 "No se pudo guardar el registro.",
		"upload_failed":               "No se pudo guardar el archivo adjunto.",
		"client_created":              "Cliente creado exitosamente.",
		"client_updated":              "Cliente actualizado exitosamente.",
		"transaction_created":         "Transacción registrada exitosamente.",
		"transaction_updated":         "Transacción actualizada exitosamente.",
		"report_generated":            "Reporte generado exitosamente.",
		"config_updated":              "Configuración actualizada exitosamente.",
		"password_reset_sent":         "Le hemos enviado instrucciones para restablecer su contraseña.",
		"password_reset_done":         "Su contraseña ha sido establecida. Ya puede iniciar sesión.",
		"password_reset_bad":          "El enlace para restablecer la contraseña no es válido o ha expirado.",
		"logged_out":                  "Ha cerrado sesión correctamente.",
		"individual":                  "Individual",
		"empresa":                     "Empresa",
		"organizacion":                "Organización",
		"ingreso":                     "Ingreso",
		"gasto":                       "Gasto",
		"transferencia":               "Transferencia",
		"activo":                      "Activo",
		"pasivo":                      "Pasivo",
		"pendiente":                   "Pendiente",
		"aprobado":                    "Aprobado",
		"rechazado":                   "Rechazado",
		"completado":                  "Completado",
		"balance_general":             "Balance General",
		"estado_resultados":           "Estado de Resultados",
		"flujo_efectivo":              "Flujo de Efectivo",
		"libro_diario":                "Libro Diario",
		"libro_mayor":                 "Libro Mayor",
		"nav.dashboard":               "Inicio",
		"nav.clients":                 "Clientes",
		"nav.transactions":            "Transacciones",
		"nav.reports":                 "Reportes",
		"nav.config":                  "Configuración",
		"nav.admin":                   "Administración",
		"nav.logout":                  "Cerrar sesión",
		"title.login":                 "Iniciar sesión",
		"title.dashboard":             "Panel de control",
		"title.clients":               "Clientes",
		"title.new_client":            "Nuevo Cliente",
		"title.edit_client":           "Editar Cliente",
		"title.transactions":          "Transacciones",
		"title.new_transaction":       "Nueva Transacción",
		"title.edit_tx":               "Editar Transacción",
		"title.reports":               "Reportes",
		"title.new_report":            "Generar Reporte",
		"title.config":                "Configuración del Sistema",
		"title.password_reset":        "Restablecer contraseña",
		"title.admin":                 "Administración",
		"not_found":                   "No se encontró el recurso solicitado.",
		"forbidden":                   "No tiene permiso para realizar esta acción.",
		"method_not_allowed":          "Método no permitido.",
		"server_error":                "Ocurrió un error inesperado.",
		"validation_failed":           "Los datos enviados no son válidos.",
		"email_taken":                 "Ya existe un usuario con este correo electrónico.",
		"config_singleton":            "Ya existe una configuración del sistema; edite la existente.",
		"config_undeletable":          "La configuración del sistema no se puede eliminar.",
		"category_created":            "Categoría creada exitosamente.",
		"deleted":                     "Registro eliminado.",
		"password_reset_intro":        "Introduzca su correo electrónico y le enviaremos instrucciones para establecer una nueva contraseña.",
		"password_reset_subject":      "Restablecimiento de contraseña en OFICONT",
		"admin_hint":                  "Los recursos también se pueden consultar como JSON con Accept: application/json.",
		"nav.categories":              "Categorías",
		"title.categories":            "Categorías contables",
		"title.error":                 "Error",
		"stat.active_clients":         "Clientes activos",
		"stat.transactions":           "Transacciones",
		"stat.month_income":           "Ingresos del mes",
		"stat.month_expense":          "Gastos del mes",
		"stat.month_balance":          "Balance del mes",
		"stat.total_income":           "Total ingresos",
		"stat.total_expense":          "Total gastos",
		"stat.balance":                "Balance",
		"section.recent_transactions": "Transacciones recientes",
		"section.recent_clients":      "Clientes recientes",
		"field.email":                 "Correo electrónico",
		"field.password":              "Contraseña",
		"field.new_password":          "Nueva contraseña",
		"field.new_password_confirm":  "Confirme la nueva contraseña",
		"field.name":                  "Nombre",
		"field.client_type":           "Tipo de cliente",
		"field.tax_id":                "NIT",
		"field.address":               "Dirección",
		"field.phone":                 "Teléfono",
		"field.registered_at":         "Fecha de registro",
		"field.status":                "Estado",
		"field.active_client":         "Cliente activo",
		"field.client":                "Cliente",
		"field.category":              "Categoría",
		"field.category_type":         "Tipo",
		"field.transaction_type":      "Tipo de transacción",
		"field.amount":                "Monto",
		"field.description":           "Descripción",
		"field.date":                  "Fecha",
		"field.receipt":               "Comprobante",
		"field.report_type":           "Tipo de reporte",
		"field.period":                "Período",
		"field.period_start":          "Fecha de inicio",
		"field.period_end":            "Fecha de fin",
		"field.generated_at":          "Generado",
		"field.file":                  "Archivo",
		"field.office_name":           "Nombre de la oficina",
		"field.office_address":        "Dirección de la oficina",
		"field.office_phone":          "Teléfono de la oficina",
		"field.office_email":          "Correo de la oficina",
		"field.currency":              "Moneda",
		"field.date_format":           "Formato de fecha",
		"field.resource":              "Recurso",
		"field.records":               "Registros",
		"label.active":                "Activo",
		"label.inactive":              "Inactivo",
		"label.current_file":          "Archivo actual",
		"empty.clients":               "No hay clientes registrados.",
		"empty.transactions":          "No hay transacciones registradas.",
		"empty.reports":               "No hay reportes generados.",
		"filter.all_clients":          "Todos los clientes",
		"filter.all_types":            "Todos los tipos",
		"filter.all_statuses":         "Todos los estados",
		"action.login":                "Iniciar sesión",
		"action.login_again":          "Iniciar sesión de nuevo",
		"action.forgot_password":      "¿Olvidó su contraseña?",
		"action.send_reset":           "Enviar instrucciones",
		"action.set_password":         "Cambiar contraseña",
		"action.request_new_link":     "Solicitar un nuevo enlace",
		"action.save":                 "Guardar",
		"action.cancel":               "Cancelar",
		"action.edit":                 "Editar",
		"action.view":                 "Ver",
		"action.filter":               "Filtrar",
		"action.generate":             "Generar",
		"month.january":               "Enero",
		"month.february":              "Febrero",
		"month.march":                 "Marzo",
		"month.april":                 "Abril",
		"month.may":                   "Mayo",
		"month.june":                  "Junio",
		"month.july":                  "Julio",
		"month.august":                "Agosto",
		"month.september":             "Septiembre",
		"month.october":               "Octubre",
		"month.november":              "Noviembre",
		"month.december":              "Diciembre",
	},
	"en": {
		"required":                    "This field is required.",
		"invalid_email":               "Enter a valid email address.",
		"invalid_choice":              "Select a valid choice.",
		"invalid_decimal":             "Enter a number.",
		"invalid_date":                "Enter a valid date.",
		"too_long":                    "The value is too long.",
		"must_be_non_negative":        "The value must be greater than or equal to zero.",
		"max_decimal_places":          "Ensure that there are no more than 2 decimal places.",
		"max_digits":                  "Ensure that there are no more than 15 digits in total.",
		"tax_id_taken":                "A client with this tax ID already exists.",
		"missing_fields":              "Please fill in all the fields.",
		"period_order":                "The start date cannot be after the end date.",
		"password_mismatch":           "The two password fields didn't match.",
		"password_too_short":          "The password must contain at least 8 characters.",
		"invalid_credentials":         "Incorrect email or password.",
		"save_failed":                 "The record could not be saved.",
		"upload_failed":               "The attachment could not be stored.",
		"client_created":              "Client created successfully.",
		"client_updated":              "Client updated successfully.",
		"transaction_created":         "Transaction recorded successfully.",
		"transaction_updated":         "Transaction updated successfully.",
		"report_generated":            "Report generated successfully.",
		"config_updated":              "Settings updated successfully.",
		"password_reset_sent":         "We've emailed you instructions for setting your password.",
		"password_reset_done":         "Your password has been set. You may go ahead and log in now.",
		"password_reset_bad":          "The password reset link was invalid or has expired.",
		"logged_out":                  "You have been logged out.",
		"individual":                  "Individual",
		"empresa":                     "Company",
		"organizacion":                "Organization",
		"ingreso":                     "Income",
		"gasto":                       "Expense",
		"transferencia":               "Transfer",
		"activo":                      "Asset",
		"pasivo":                      "Liability",
		"pendiente":                   "Pending",
		"aprobado":                    "Approved",
		"rechazado":                   "Rejected",
		"completado":                  "Completed",
		"balance_general":             "Balance Sheet",
		"estado_resultados":           "Income Statement",
		"flujo_efectivo":              "Cash Flow",
		"libro_diario":                "General Journal",
		"libro_mayor":                 "General Ledger",
		"nav.dashboard":               "Home",
		"nav.clients":                 "Clients",
		"nav.transactions":            "Transactions",
		"nav.reports":                 "Reports",
		"nav.config":                  "Settings",
		"nav.admin":                   "Administration",
		"nav.logout":                  "Log out",
		"title.login":                 "Log in",
		"title.dashboard":             "Dashboard",
		"title.clients":               "Clients",
		"title.new_client":            "New Client",
		"title.edit_client":           "Edit Client",
		"title.transactions":          "Transactions",
		"title.new_transaction":       "New Transaction",
		"title.edit_tx":               "Edit Transaction",
		"title.reports":               "Reports",
		"title.new_report":            "Generate Report",
		"title.config":                "System Settings",
		"title.password_reset":        "Password reset",
		"title.admin":                 "Administration",
		"not_found":                   "The requested resource was not found.",
		"forbidden":                   "You do not have permission to perform this action.",
		"method_not_allowed":          "Method not allowed.",
		"server_error":                "An unexpected error occurred.",
		"validation_failed":           "The submitted data is not valid.",
		"email_taken":                 "A user with this email already exists.",
		"config_singleton":            "A system configuration already exists; edit the existing one.",
		"config_undeletable":          "The system configuration cannot be deleted.",
		"category_created":            "Category created successfully.",
		"deleted":                     "Record deleted.",
		"password_reset_intro":        "Enter your email address and we'll send you instructions for setting a new password.",
		"password_reset_subject":      "Password reset on OFICONT",
		"admin_hint":                  "Resources can also be read as JSON with Accept: application/json.",
		"nav.categories":              "Categories",
		"title.categories":            "Accounting categories",
		"title.error":                 "Error",
		"stat.active_clients":         "Active clients",
		"stat.transactions":           "Transactions",
		"stat.month_income":           "Income this month",
		"stat.month_expense":          "Expenses this month",
		"stat.month_balance":          "Balance this month",
		"stat.total_income":           "Total income",
		"stat.total_expense":          "Total expenses",
		"stat.balance":                "Balance",
		"section.recent_transactions": "Recent transactions",
		"section.recent_clients":      "Recent clients",
		"field.email":                 "Email",
		"field.password":              "Password",
		"field.new_password":          "New password",
		"field.new_password_confirm":  "New password confirmation",
		"field.name":                  "Name",
		"field.client_type":           "Client type",
		"field.tax_id":                "Tax ID (NIT)",
		"field.address":               "Address",
		"field.phone":                 "Phone",
		"field.registered_at":         "Registered",
		"field.status":                "Status",
		"field.active_client":         "Active client",
		"field.client":                "Client",
		"field.category":              "Category",
		"field.category_type":         "Type",
		"field.transaction_type":      "Transaction type",
		"field.amount":                "Amount",
		"field.description":           "Description",
		"field.date":                  "Date",
		"field.receipt":               "Receipt",
		"field.report_type":           "Report type",
		"field.period":                "Period",
		"field.period_start":          "Start date",
		"field.period_end":            "End date",
		"field.generated_at":          "Generated",
		"field.file":                  "File",
		"field.office_name":           "Office name",
		"field.office_address":        "Office address",
		"field.office_phone":          "Office phone",
		"field.office_email":          "Office email",
		"field.currency":              "Currency",
		"field.date_format":           "Date format",
		"field.resource":              "Resource",
		"field.records":               "Records",
		"label.active":                "Active",
		"label.inactive":              "Inactive",
		"label.current_file":          "Current file",
		"empty.clients":               "No clients yet.",
		"empty.transactions":          "No transactions yet.",
		"empty.reports":               "No reports yet.",
		"filter.all_clients":          "All clients",
		"filter.all_types":            "All types",
		"filter.all_statuses":         "All statuses",
		"action.login":                "Log in",
		"action.login_again":          "Log in again",
		"action.forgot_password":      "Forgot your password?",
		"action.send_reset":           "Send instructions",
		"action.set_password":         "Change my password",
		"action.request_new_link":     "Request a new link",
		"action.save":                 "Save",
		"action.cancel":               "Cancel",
		"action.edit":                 "Edit",
		"action.view":                 "View",
		"action.filter":               "Filter",
		"action.generate":             "Generate",
		"month.january":               "January",
		"month.february":              "February",
		"month.march":                 "March",
		"month.april":                 "April",
		"month.may":                   "May",
		"month.june":                  "June",
		"month.july":                  "July",
		"month.august":                "August",
		"month.september":             "September",
		"month.october":               "October",
		"month.november":              "November",
		"month.december":              "December",
	},
}

// T translates code into lang, falling back to the default language and then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool { return supported[lang] }

// DetectLanguage picks the first supported primary tag from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if supported[primary] {
			return primary
		}
	}
	return DefaultLang
}

type langKey struct{}

// WithLang stores the negotiated language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the negotiated language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}
