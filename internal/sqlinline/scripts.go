package sqlinline

const QSelectScript = `--sql 5a1f7c2e-8b34-4d9a-a0e6-2c7b1f9d4e83
select id::text, coalesce(job_id::text, ''), total_duration, coalesce(voiceover_script, ''),
       scenes, color_palette, coalesce(image_prompts, '[]'::jsonb)
from video_scripts
where id = $1::uuid;
`
