package postgres

// nameOf renders "first last" for the users row aliased u, skipping missing
// parts.
const nameOf = `TRIM(CONCAT_WS(' ', NULLIF(u.first_name, ''), NULLIF(u.last_name, '')))`

// User queries
const (
	userColumns = `
        id, email, password_hash, first_name, last_name, profile_image_url, role,
        university, field, year_of_study, location, bio, skills, connections,
        created_at, updated_at`

	InsertUserQuery = `
        INSERT INTO users (
            email, password_hash, first_name, last_name, profile_image_url, role,
            university, field, year_of_study, location, bio, skills
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, connections, created_at, updated_at`

	SelectUsersQuery = `SELECT ` + userColumns + ` FROM users`

	UpdateProfileQuery = `
        UPDATE users SET
            first_name    = COALESCE($2, first_name),
            last_name     = COALESCE($3, last_name),
            university    = COALESCE($4, university),
            field         = COALESCE($5, field),
            year_of_study = COALESCE($6, year_of_study),
            location      = COALESCE($7, location),
            bio           = COALESCE($8, bio),
            skills        = COALESCE($9, skills),
            updated_at    = NOW()
        WHERE id = $1
        RETURNING ` + userColumns

	UpdateRoleQuery         = `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`
	UpdateProfileImageQuery = `UPDATE users SET profile_image_url = $2, updated_at = NOW() WHERE id = $1`

	SearchUsersQuery = SelectUsersQuery + `
        WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR field ILIKE $1 OR university ILIKE $1
        ORDER BY id`

	ListUsersQuery = SelectUsersQuery + ` ORDER BY created_at DESC, id DESC`

	SelectUsersByIDsQuery = SelectUsersQuery + ` WHERE id = ANY($1)`

	AdjustConnectionsQuery = `
        UPDATE users SET connections = GREATEST(connections + $3, 0)
        WHERE id IN ($1, $2)`

	UserExistsQuery = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
)

// Project queries
const (
	projectColumns = `
        id, title, description, category, status, skills, max_participants,
        current_participants, image_url, creator_id, created_at, updated_at`

	InsertProjectQuery = `
        INSERT INTO projects (
            title, description, category, status, skills, max_participants, image_url, creator_id
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, current_participants, created_at, updated_at`

	SelectProjectsQuery = `SELECT ` + projectColumns + ` FROM projects`

	LockProjectQuery = SelectProjectsQuery + ` WHERE id = $1 FOR UPDATE`

	InsertParticipantQuery = `
        INSERT INTO project_participants (project_id, user_id, status)
        VALUES ($1, $2, 'pending')
        RETURNING id`

	SelectParticipantsQuery = `
        SELECT pp.id, pp.project_id, pp.user_id, pp.status, pp.joined_at, ` + nameOf + ` AS user_name
        FROM project_participants pp
        JOIN users u ON u.id = pp.user_id`

	LockParticipantStatusQuery = `
        SELECT status FROM project_participants
        WHERE id = $1 AND project_id = $2
        FOR UPDATE`

	UpdateParticipantStatusQuery = `UPDATE project_participants SET status = $2 WHERE id = $1`

	UpdateParticipantCountQuery = `
        UPDATE projects SET current_participants = current_participants + $2, updated_at = NOW()
        WHERE id = $1`
)

// Job queries
const (
	jobColumns = `
        id, title, description, company, location, type, duration, salary,
        requirements, benefits, status, poster_id, created_at, updated_at`

	InsertJobQuery = `
        INSERT INTO job_offers (
            title, description, company, location, type, duration, salary,
            requirements, benefits, status, poster_id
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at`

	SelectJobsQuery = `SELECT ` + jobColumns + ` FROM job_offers`

	InsertApplicationQuery = `
        INSERT INTO job_applications (job_id, user_id, status, cover_letter)
        VALUES ($1, $2, 'pending', $3)
        RETURNING id`

	SelectApplicationsQuery = `
        SELECT a.id, a.job_id, a.user_id, a.status, a.cover_letter, a.applied_at,
               j.title AS job_title, ` + nameOf + ` AS user_name
        FROM job_applications a
        JOIN job_offers j ON j.id = a.job_id
        JOIN users u ON u.id = a.user_id`

	LockApplicationStatusQuery = `SELECT status FROM job_applications WHERE id = $1 FOR UPDATE`

	UpdateApplicationStatusQuery = `UPDATE job_applications SET status = $2 WHERE id = $1`
)

// Service queries
const (
	serviceColumns = `
        id, title, description, category, price, location, availability,
        image_url, status, provider_id, created_at, updated_at`

	InsertServiceQuery = `
        INSERT INTO services (
            title, description, category, price, location, availability, image_url, status, provider_id
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	SelectServicesQuery = `SELECT ` + serviceColumns + ` FROM services`

	UpdateServiceStatusQuery = `UPDATE services SET status = $2, updated_at = NOW() WHERE id = $1`

	DeleteServiceQuery = `DELETE FROM services WHERE id = $1`

	InsertServiceRequestQuery = `
        INSERT INTO service_requests (service_id, requester_id, message, status)
        VALUES ($1, $2, $3, 'pending')
        RETURNING id`

	SelectServiceRequestsQuery = `
        SELECT r.id, r.service_id, r.requester_id, r.message, r.status, r.requested_at,
               r.approved_at, r.completed_at, s.title AS service_title, ` + nameOf + ` AS requester_name
        FROM service_requests r
        JOIN services s ON s.id = r.service_id
        JOIN users u ON u.id = r.requester_id`

	LockServiceRequestStatusQuery = `SELECT status FROM service_requests WHERE id = $1 FOR UPDATE`

	UpdateServiceRequestStatusQuery = `
        UPDATE service_requests SET
            status       = $2::text,
            approved_at  = CASE WHEN $2::text = 'approved' THEN NOW() ELSE approved_at END,
            completed_at = CASE WHEN $2::text = 'completed' THEN NOW() ELSE completed_at END
        WHERE id = $1`
)

// Feed queries
const (
	InsertAnnouncementQuery = `
        INSERT INTO announcements (title, content, type, image_url, author_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	SelectAnnouncementsQuery = `
        SELECT a.id, a.title, a.content, a.type, a.image_url, a.author_id, a.likes,
               a.comments_count, a.created_at, a.updated_at, ` + nameOf + ` AS author_name
        FROM announcements a
        JOIN users u ON u.id = a.author_id`

	LockAnnouncementQuery = `SELECT id FROM announcements WHERE id = $1 FOR UPDATE`

	InsertLikeQuery = `
        INSERT INTO announcement_likes (announcement_id, user_id) VALUES ($1, $2)
        ON CONFLICT (announcement_id, user_id) DO NOTHING`

	DeleteLikeQuery = `DELETE FROM announcement_likes WHERE announcement_id = $1 AND user_id = $2`

	AdjustLikesQuery = `UPDATE announcements SET likes = likes + $2 WHERE id = $1`

	InsertCommentQuery = `
        INSERT INTO comments (announcement_id, user_id, content)
        VALUES ($1, $2, $3)
        RETURNING id`

	IncrementCommentsQuery = `UPDATE announcements SET comments_count = comments_count + 1 WHERE id = $1`

	SelectCommentsQuery = `
        SELECT c.id, c.announcement_id, c.user_id, c.content, c.created_at, c.updated_at, ` + nameOf + ` AS user_name
        FROM comments c
        JOIN users u ON u.id = c.user_id`
)

// Message queries
const (
	messageColumns = `id, sender_id, receiver_id, content, read, created_at`

	InsertMessageQuery = `
        INSERT INTO messages (sender_id, receiver_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, read, created_at`

	SelectMessagesQuery = `SELECT ` + messageColumns + ` FROM messages`

	UserMessagesQuery = SelectMessagesQuery + `
        WHERE sender_id = $1 OR receiver_id = $1
        ORDER BY created_at DESC, id DESC`

	ConversationQuery = SelectMessagesQuery + `
        WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
        ORDER BY created_at, id`

	MarkMessageReadQuery = `UPDATE messages SET read = TRUE WHERE id = $1`

	MarkConversationReadQuery = `
        UPDATE messages SET read = TRUE
        WHERE receiver_id = $1 AND sender_id = $2 AND NOT read`

	CountUnreadQuery = `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT read`
)

// Connection queries
const (
	connectionColumns = `c.id, c.requester_id, c.receiver_id, c.status, c.created_at, c.accepted_at`

	// SelectConnectionsForQuery resolves the other side relative to $1.
	SelectConnectionsForQuery = `
        SELECT ` + connectionColumns + `,
               u.id AS other_user_id, ` + nameOf + ` AS other_user_name,
               u.profile_image_url AS other_user_image
        FROM connections c
        JOIN users u ON u.id = CASE WHEN c.requester_id = $1 THEN c.receiver_id ELSE c.requester_id END`

	GetConnectionQuery = `SELECT ` + connectionColumns + ` FROM connections c WHERE c.id = $1`

	ConnectionExistsQuery = `
        SELECT EXISTS (
            SELECT 1 FROM connections
            WHERE ((requester_id = $1 AND receiver_id = $2) OR (requester_id = $2 AND receiver_id = $1))
              AND status <> 'rejected'
        )`

	InsertConnectionQuery = `
        INSERT INTO connections (requester_id, receiver_id, status)
        VALUES ($1, $2, 'pending')
        RETURNING id`

	LockConnectionQuery = `
        SELECT requester_id, receiver_id, status FROM connections
        WHERE id = $1
        FOR UPDATE`

	RespondConnectionQuery = `
        UPDATE connections SET
            status      = $2::text,
            accepted_at = CASE WHEN $2::text = 'accepted' THEN NOW() ELSE accepted_at END
        WHERE id = $1`

	DeleteConnectionQuery = `
        DELETE FROM connections WHERE id = $1
        RETURNING requester_id, receiver_id, status`
)

const StatsQuery = `
    SELECT
        (SELECT COUNT(*) FROM users)                                         AS total_users,
        (SELECT COUNT(*) FROM users WHERE updated_at >= $1)                  AS active_users,
        (SELECT COUNT(*) FROM projects)                                      AS total_projects,
        (SELECT COUNT(*) FROM projects WHERE status = 'active')              AS active_projects,
        (SELECT COUNT(*) FROM services)                                      AS total_services,
        (SELECT COUNT(*) FROM services WHERE status = 'pending_approval')    AS pending_services,
        (SELECT COUNT(*) FROM job_offers)                                    AS total_jobs,
        (SELECT COUNT(*) FROM messages)                                      AS total_messages,
        (SELECT COUNT(*) FROM connections WHERE status = 'accepted')         AS total_connections`
