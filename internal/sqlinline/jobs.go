package sqlinline

const QUpdateJobCode = `--sql c4e8a1b7-2f9d-4a36-8e15-6b0d3f7a9c21
update video_jobs
set generated_code = $2::text,
    used_fallback = $3::boolean,
    status = 'CODE_READY',
    error_message = null,
    updated_at = now()
where id = $1::uuid;
`

const QSelectJob = `--sql 7d2b9e4f-a16c-4b83-9d05-e1f8c3a7b254
select id::text, coalesce(script_id::text, ''), status, coalesce(aspect_ratio, ''), coalesce(target_duration, 0),
       coalesce(image_urls, '[]'::jsonb), audio, coalesce(previous_code, ''), coalesce(iteration_feedback, ''),
       coalesce(generated_code, ''), coalesce(used_fallback, false), coalesce(error_message, ''),
       created_at, updated_at
from video_jobs
where id = $1::uuid;
`

const QClaimCodeJob = `--sql 1f6a3c8d-7e25-4b9f-8a04-d5c2e9b1f736
with next_job as (
    select id
    from video_jobs
    where status = 'CODE_QUEUED'
    order by created_at asc
    for update skip locked
    limit 1
),
claimed as (
    update video_jobs
    set status = 'CODE_RUNNING', updated_at = now()
    where id in (select id from next_job)
    returning id, script_id, status, aspect_ratio, target_duration, image_urls, audio,
              previous_code, iteration_feedback, generated_code, used_fallback, error_message,
              created_at, updated_at
)
select id::text, coalesce(script_id::text, ''), status, coalesce(aspect_ratio, ''), coalesce(target_duration, 0),
       coalesce(image_urls, '[]'::jsonb), audio, coalesce(previous_code, ''), coalesce(iteration_feedback, ''),
       coalesce(generated_code, ''), coalesce(used_fallback, false), coalesce(error_message, ''),
       created_at, updated_at
from claimed;
`

const QMarkJobFailed = `--sql 8c3e5a92-4d1b-4f7e-b2a6-9e0f1d7c5b48
update video_jobs
set status = 'CODE_FAILED',
    error_message = $2::text,
    updated_at = now()
where id = $1::uuid;
`
