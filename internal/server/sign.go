package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"inkwell/pkg/types"

	"github.com/alexedwards/flow"
)

// signerSession is the securecookie payload remembering which instance a
// recipient opened, so repeated page loads are not re-logged as views.
type signerSession struct {
	InstanceID string
	ViewedAt   time.Time
}

func (s *Service) handleSignView(w http.ResponseWriter, r *http.Request) {
	instanceID := flow.Param(r.Context(), "instanceID")
	token := flow.Param(r.Context(), "token")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	instance, err := s.tracker.InstanceByAccess(ctx, instanceID, token)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	doc, err := s.registry.Document(ctx, instance.DocumentID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	expired := instance.Expired(time.Now())

	// First open marks the instance viewed, unless it is already terminal or
	// past viewing.
	alreadySeen := s.hasSignerSession(r, instance.ID)
	if !alreadySeen && !expired && !instance.Status.Terminal() && instance.Status != types.InstanceStatusViewed {
		err = s.tracker.UpdateStatus(ctx, instance.ID, types.StatusUpdate{
			Status:    types.InstanceStatusViewed,
			UserAgent: r.UserAgent(),
			IPAddress: clientIP(r),
		})
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		s.setSignerSession(w, instance.ID)
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"documentTitle": doc.Title,
		"documentType":  doc.DocumentType,
		"documentUrl":   doc.DocumentURL,
		"recipientName": instance.RecipientName,
		"status":        instance.Status,
		"expired":       expired,
	})
}

func (s *Service) handleSignSubmit(w http.ResponseWriter, r *http.Request) {
	instanceID := flow.Param(r.Context(), "instanceID")
	token := flow.Param(r.Context(), "token")

	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	instance, err := s.tracker.InstanceByAccess(ctx, instanceID, token)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if instance.Expired(time.Now()) {
		s.respondError(w, http.StatusGone, "this signing link has expired")
		return
	}

	update := types.StatusUpdate{
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
		Location:  r.PostForm.Get("location"),
		FormData:  extraFormData(r),
	}

	switch r.PostForm.Get("action") {
	case "sign":
		update.Status = types.InstanceStatusSigned
		update.SignatureData = &types.SignatureData{
			SignatureType:  r.PostForm.Get("signature_type"),
			SignatureImage: r.PostForm.Get("signature_image"),
		}
	case "decline":
		update.Status = types.InstanceStatusDeclined
		update.DeclinedReason = r.PostForm.Get("declined_reason")
	default:
		s.respondError(w, http.StatusBadRequest, "action must be sign or decline")
		return
	}

	if err := s.tracker.UpdateStatus(ctx, instance.ID, update); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(update.Status)})
}

// extraFormData collects the free-form signing page fields, dropping the ones
// the handler consumes explicitly.
func extraFormData(r *http.Request) map[string]any {
	reserved := map[string]struct{}{
		"action":          {},
		"signature_type":  {},
		"signature_image": {},
		"declined_reason": {},
		"location":        {},
	}

	data := make(map[string]any)
	for key, values := range r.PostForm {
		if _, ok := reserved[key]; ok {
			continue
		}
		if len(values) == 1 {
			data[key] = values[0]
		} else {
			data[key] = values
		}
	}

	if len(data) == 0 {
		return nil
	}
	return data
}

func (s *Service) setSignerSession(w http.ResponseWriter, instanceID string) {
	encoded, err := s.cookie.Encode(s.config.SignerCookieName, signerSession{
		InstanceID: instanceID,
		ViewedAt:   time.Now(),
	})
	if err != nil {
		s.logger.WithError(err).Debug("failed to encode signer cookie")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.SignerCookieName,
		Value:    encoded,
		Path:     "/sign",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Service) hasSignerSession(r *http.Request, instanceID string) bool {
	cookie, err := r.Cookie(s.config.SignerCookieName)
	if err != nil {
		return false
	}

	var session signerSession
	if err := s.cookie.Decode(s.config.SignerCookieName, cookie.Value, &session); err != nil {
		return false
	}

	return session.InstanceID == instanceID
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
