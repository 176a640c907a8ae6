package i18n

// Message keys. Every user-visible failure string in the client goes
// through one of these; raw transport or parse errors are never shown.
const (
	KeyProfileLoadFailed        = "users.profile.load_failed"
	KeyProfileSaveFailed        = "users.profile.save_failed"
	KeyAvatarLoadFailed         = "users.avatar.load_failed"
	KeyAvatarUploadFailed       = "users.avatar.upload_failed"
	KeyPreferencesLoadFailed    = "users.preferences.load_failed"
	KeyPreferencesSaveFailed    = "users.preferences.save_failed"
	KeyAnimalsLoadFailed        = "animals.list.load_failed"
	KeyAnimalLoadFailed         = "animals.detail.load_failed"
	KeyListingCreateFailed      = "animals.listing.create_failed"
	KeyListingDeleteFailed      = "animals.listing.delete_failed"
	KeyListingPhotoUploadFailed = "animals.listing.photo_upload_failed"
	KeyConversationsLoadFailed  = "messages.conversations.load_failed"
	KeyConversationStartFailed  = "messages.conversation.start_failed"
	KeyConversationDeleteFailed = "messages.conversation.delete_failed"
	KeyMessagesLoadFailed       = "messages.history.load_failed"
	KeyMessageSendFailed        = "messages.send_failed"
	KeyUnreadCountLoadFailed    = "messages.unread.load_failed"
	KeyRehomerLoadFailed        = "rehomers.profile.load_failed"
	KeyRehomerSaveFailed        = "rehomers.profile.save_failed"

	KeyGeoPermissionDenied    = "geo.permission_denied"
	KeyGeoPositionUnavailable = "geo.position_unavailable"
	KeyGeoTimeout             = "geo.timeout"
	KeyGeoUnknown             = "geo.unknown"
	KeyGeoSuggestFailed       = "geo.suggest_failed"

	KeyFormAgeRange        = "form.preferences.age_range"
	KeyFormAgeBounds       = "form.preferences.age_bounds"
	KeyFormDistanceBounds  = "form.preferences.distance_bounds"
	KeyFormGenderInvalid   = "form.preferences.gender_invalid"
	KeyFormLocationMissing = "form.preferences.location_missing"
	KeyFormNameMissing     = "form.listing.name_missing"
	KeyFormDescTooLong     = "form.listing.description_too_long"
	KeyFormPhotoMissing    = "form.listing.photo_missing"

	KeySignInFailed  = "auth.sign_in_failed"
	KeySignOutFailed = "auth.sign_out_failed"
)

var catalogs = map[Lang]map[string]string{
	LangEnglish: {
		KeyProfileLoadFailed:        "Could not load your profile.",
		KeyProfileSaveFailed:        "Could not save your profile.",
		KeyAvatarLoadFailed:         "Could not load profile picture.",
		KeyAvatarUploadFailed:       "Could not upload profile picture.",
		KeyPreferencesLoadFailed:    "Could not load your discovery preferences.",
		KeyPreferencesSaveFailed:    "Could not save your discovery preferences.",
		KeyAnimalsLoadFailed:        "Could not load animals near you.",
		KeyAnimalLoadFailed:         "Could not load this animal.",
		KeyListingCreateFailed:      "Could not create the listing.",
		KeyListingDeleteFailed:      "Could not delete the listing.",
		KeyListingPhotoUploadFailed: "Could not upload the listing photo.",
		KeyConversationsLoadFailed:  "Could not load your conversations.",
		KeyConversationStartFailed:  "Could not start the conversation.",
		KeyConversationDeleteFailed: "Could not delete the conversation.",
		KeyMessagesLoadFailed:       "Could not load messages.",
		KeyMessageSendFailed:        "Could not send the message.",
		KeyUnreadCountLoadFailed:    "Could not check for new messages.",
		KeyRehomerLoadFailed:        "Could not load the rehomer profile.",
		KeyRehomerSaveFailed:        "Could not save the rehomer profile.",

		KeyGeoPermissionDenied:    "Location permission was denied.",
		KeyGeoPositionUnavailable: "Your location is currently unavailable.",
		KeyGeoTimeout:             "Finding your location took too long.",
		KeyGeoUnknown:             "Something went wrong while finding your location.",
		KeyGeoSuggestFailed:       "Could not look up that address.",

		KeyFormAgeRange:        "Minimum age must not be greater than maximum age.",
		KeyFormAgeBounds:       "Age must be between 0 and 480 months.",
		KeyFormDistanceBounds:  "Distance must be between 1 and 250 km.",
		KeyFormGenderInvalid:   "Choose a valid gender.",
		KeyFormLocationMissing: "Choose a search location.",
		KeyFormNameMissing:     "Give the animal a name.",
		KeyFormDescTooLong:     "The description is too long.",
		KeyFormPhotoMissing:    "Add at least one photo.",

		KeySignInFailed:  "Could not sign you in.",
		KeySignOutFailed: "Could not sign you out.",
	},
	LangSpanish: {
		KeyProfileLoadFailed:        "No se pudo cargar tu perfil.",
		KeyProfileSaveFailed:        "No se pudo guardar tu perfil.",
		KeyAvatarLoadFailed:         "No se pudo cargar la foto de perfil.",
		KeyAvatarUploadFailed:       "No se pudo subir la foto de perfil.",
		KeyPreferencesLoadFailed:    "No se pudieron cargar tus preferencias de búsqueda.",
		KeyPreferencesSaveFailed:    "No se pudieron guardar tus preferencias de búsqueda.",
		KeyAnimalsLoadFailed:        "No se pudieron cargar los animales cercanos.",
		KeyAnimalLoadFailed:         "No se pudo cargar este animal.",
		KeyListingCreateFailed:      "No se pudo crear el anuncio.",
		KeyListingDeleteFailed:      "No se pudo eliminar el anuncio.",
		KeyListingPhotoUploadFailed: "No se pudo subir la foto del anuncio.",
		KeyConversationsLoadFailed:  "No se pudieron cargar tus conversaciones.",
		KeyConversationStartFailed:  "No se pudo iniciar la conversación.",
		KeyConversationDeleteFailed: "No se pudo eliminar la conversación.",
		KeyMessagesLoadFailed:       "No se pudieron cargar los mensajes.",
		KeyMessageSendFailed:        "No se pudo enviar el mensaje.",
		KeyUnreadCountLoadFailed:    "No se pudieron comprobar los mensajes nuevos.",
		KeyRehomerLoadFailed:        "No se pudo cargar el perfil del cuidador.",
		KeyRehomerSaveFailed:        "No se pudo guardar el perfil del cuidador.",

		KeyGeoPermissionDenied:    "Se denegó el permiso de ubicación.",
		KeyGeoPositionUnavailable: "Tu ubicación no está disponible en este momento.",
		KeyGeoTimeout:             "Encontrar tu ubicación tardó demasiado.",
		KeyGeoUnknown:             "Algo salió mal al buscar tu ubicación.",
		KeyGeoSuggestFailed:       "No se pudo buscar esa dirección.",

		KeyFormAgeRange:        "La edad mínima no puede ser mayor que la máxima.",
		KeyFormAgeBounds:       "La edad debe estar entre 0 y 480 meses.",
		KeyFormDistanceBounds:  "La distancia debe estar entre 1 y 250 km.",
		KeyFormGenderInvalid:   "Elige un género válido.",
		KeyFormLocationMissing: "Elige una ubicación de búsqueda.",
		KeyFormNameMissing:     "Ponle un nombre al animal.",
		KeyFormDescTooLong:     "La descripción es demasiado larga.",
		KeyFormPhotoMissing:    "Añade al menos una foto.",

		KeySignInFailed:  "No se pudo iniciar sesión.",
		KeySignOutFailed: "No se pudo cerrar sesión.",
	},
}
